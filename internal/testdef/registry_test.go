package testdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"personafeedback/internal/domain"
	"personafeedback/internal/scoring"
)

func TestLoad(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	defs := r.List()
	require.Len(t, defs, 5)

	// Every loaded test must have a scoring function.
	for _, def := range defs {
		_, ok := scoring.For(def.ID)
		assert.True(t, ok, "no scoring function for %s", def.ID)
	}
}

func TestLoad_QuestionShapes(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	mbti, ok := r.Get("mbti")
	require.True(t, ok)
	require.Len(t, mbti.Questions, 20)
	for _, q := range mbti.Questions {
		assert.Equal(t, domain.QuestionChoice, q.Type)
		assert.Len(t, q.Options, 2)
	}

	fb, ok := r.Get("feedback360")
	require.True(t, ok)
	require.Len(t, fb.Questions, 20)
	for _, q := range fb.Questions {
		assert.Equal(t, domain.QuestionScale, q.Type)
		assert.Equal(t, 1, q.Min)
		assert.Equal(t, 5, q.Max)
	}

	bf, ok := r.Get("big_five")
	require.True(t, ok)
	assert.Len(t, bf.Questions, 25)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}
