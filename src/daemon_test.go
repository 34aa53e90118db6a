package soundtun

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flaky_sink struct {
	samples []float32
	err     error
}

func (s *flaky_sink) write_samples(buf []float32) error {
	if s.err != nil {
		return s.err
	}
	s.samples = append(s.samples, buf...)
	return nil
}

func TestTeeSinkWritesBoth(t *testing.T) {
	var primary = &flaky_sink{}
	var tap = &flaky_sink{}
	var tee = &tee_sink{primary: primary, tap: tap}

	require.NoError(t, tee.write_samples([]float32{0.1, -0.1}))
	assert.Equal(t, []float32{0.1, -0.1}, primary.samples)
	assert.Equal(t, []float32{0.1, -0.1}, tap.samples)
}

func TestTeeSinkTapFailureIsAbsorbed(t *testing.T) {
	// A dying dump file must not take the speaker down with it.
	var primary = &flaky_sink{}
	var tap = &flaky_sink{err: errors.New("disk full")}
	var tee = &tee_sink{primary: primary, tap: tap}

	require.NoError(t, tee.write_samples([]float32{0.5}))
	assert.Equal(t, []float32{0.5}, primary.samples)
}

func TestTeeSinkPrimaryFailurePropagates(t *testing.T) {
	var primary = &flaky_sink{err: errors.New("device gone")}
	var tee = &tee_sink{primary: primary, tap: &flaky_sink{}}

	assert.Error(t, tee.write_samples([]float32{0.5}))
}
