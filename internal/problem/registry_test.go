package problem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLimits = Limits{MaxID: 10, MinInstance: 1, MaxInstance: 5, MinDim: 1, MaxDim: 8}

func sphereCtor(instance, dim int) (*Problem[float64], error) {
	meta := Metadata{ID: 1, Name: "Sphere", Instance: instance, Dimension: dim, Bounds: NewBounds(dim, -5, 5)}
	return New(meta, sphere, Pipeline[float64]{}), nil
}

func TestRegistry_RegisterAndCreate(t *testing.T) {
	r := NewRegistry[float64]("test", testLimits)
	require.NoError(t, r.Register("Sphere", 1, sphereCtor))
	require.NoError(t, r.Register("Other", 3, sphereCtor))

	p, err := r.Create(1, 2, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, p.Meta().Instance)
	assert.Equal(t, 4, p.Meta().Dimension)

	p, err = r.CreateByName("Sphere", 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Meta().Dimension)

	assert.Equal(t, []int{1, 3}, r.IDs())
	assert.Equal(t, []string{"Sphere", "Other"}, r.Names())

	id, ok := r.Lookup("Other")
	assert.True(t, ok)
	assert.Equal(t, 3, id)

	assert.Equal(t, "test", r.Family())
	assert.Equal(t, testLimits, r.Limits())
}

func TestRegistry_Duplicate(t *testing.T) {
	t.Run("same name", func(t *testing.T) {
		r := NewRegistry[float64]("test", testLimits)
		require.NoError(t, r.Register("Sphere", 1, sphereCtor))

		err := r.Register("Sphere", 2, sphereCtor)
		assert.True(t, errors.Is(err, ErrDuplicateRegistration))
	})

	t.Run("same id", func(t *testing.T) {
		r := NewRegistry[float64]("test", testLimits)
		require.NoError(t, r.Register("Sphere", 1, sphereCtor))

		err := r.Register("Ball", 1, sphereCtor)
		var dup *DuplicateRegistrationError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, 1, dup.ID)
	})

	t.Run("must register panics", func(t *testing.T) {
		r := NewRegistry[float64]("test", testLimits)
		r.MustRegister("Sphere", 1, sphereCtor)
		assert.Panics(t, func() { r.MustRegister("Sphere", 1, sphereCtor) })
	})
}

func TestRegistry_CreateErrors(t *testing.T) {
	r := NewRegistry[float64]("test", testLimits)
	r.MustRegister("Sphere", 1, sphereCtor)

	tests := []struct {
		name     string
		create   func() error
		outRange bool
	}{
		{"unknown id", func() error { _, err := r.Create(7, 1, 2); return err }, false},
		{"unknown name", func() error { _, err := r.CreateByName("Nope", 1, 2); return err }, false},
		{"instance too large", func() error { _, err := r.Create(1, 6, 2); return err }, true},
		{"dimension too small", func() error { _, err := r.Create(1, 1, 0); return err }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.create()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))
			var oor *OutOfRangeError
			assert.Equal(t, tt.outRange, errors.As(err, &oor))
		})
	}
}

func TestRegistry_ConstructorErrorIsWrapped(t *testing.T) {
	r := NewRegistry[float64]("test", testLimits)
	inner := &ConfigurationError{Field: "dimension", Value: 3, Reason: "must be even"}
	r.MustRegister("Even", 2, func(int, int) (*Problem[float64], error) { return nil, inner })

	_, err := r.Create(2, 1, 3)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "must be even")
}

func TestLimits_Check(t *testing.T) {
	err := testLimits.Check("test", 11, 1, 1)
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "id", oor.Field)
	assert.Equal(t, 10, oor.Max)

	assert.NoError(t, testLimits.Check("test", 10, 5, 8))
}
