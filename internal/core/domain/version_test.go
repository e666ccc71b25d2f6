package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/pakt/internal/core/domain"
)

func TestParseVersion_RoundTrip(t *testing.T) {
	cases := []string{
		"1.0.0",
		"0.1.2",
		"1.2.3-beta.1",
		"2.0.0-rc.1+build.5",
		"10.20.30",
	}
	for _, text := range cases {
		v, err := domain.ParseVersion(text)
		require.NoError(t, err, text)
		assert.Equal(t, text, v.String(), "format after parse must be identical")
	}
}

func TestParseVersion_Malformed(t *testing.T) {
	for _, text := range []string{"", "1", "1.2", "v1.2.3.4", "banana", "1.2.x"} {
		_, err := domain.ParseVersion(text)
		require.ErrorIs(t, err, domain.ErrVersionParse, text)
	}
}

func TestVersion_Ordering(t *testing.T) {
	ordered := []string{
		"0.9.0",
		"1.0.0-alpha",
		"1.0.0-alpha.1",
		"1.0.0-beta",
		"1.0.0",
		"1.0.1",
		"1.1.0",
		"2.0.0-rc.1",
		"2.0.0",
	}
	for i := 0; i < len(ordered)-1; i++ {
		a := domain.MustVersion(ordered[i])
		b := domain.MustVersion(ordered[i+1])
		assert.True(t, a.Less(b), "%s < %s", ordered[i], ordered[i+1])
		assert.True(t, b.Compare(a) > 0)
	}
}

func TestVersion_BuildMetadata(t *testing.T) {
	a := domain.MustVersion("1.2.3+linux")
	b := domain.MustVersion("1.2.3+darwin")

	// Build metadata is invisible to ordering but visible to identity.
	assert.True(t, a.Equal(b))
	assert.Equal(t, 0, a.Compare(b))
	assert.False(t, a.ExactEqual(b))
	assert.True(t, a.ExactEqual(a))
}

func TestRange_SatisfiedBy(t *testing.T) {
	cases := []struct {
		rng     string
		version string
		want    bool
	}{
		{">=1.2.0,<2.0.0", "1.2.0", true},
		{">=1.2.0,<2.0.0", "1.9.9", true},
		{">=1.2.0,<2.0.0", "2.0.0", false},
		{">=1.2.0,<2.0.0", "1.1.9", false},
		{"^1.0.0", "1.5.0", true},
		{"^1.0.0", "2.0.0", false},
		{"~1.2.0", "1.2.9", true},
		{"~1.2.0", "1.3.0", false},
		// Prerelease versions only match ranges mentioning a prerelease.
		{"^1.0.0", "1.5.0-beta.1", false},
		{">=1.5.0-beta", "1.5.0-beta.2", true},
	}
	for _, tc := range cases {
		r := domain.MustRange(tc.rng)
		v := domain.MustVersion(tc.version)
		assert.Equal(t, tc.want, r.SatisfiedBy(v), "%s vs %s", tc.version, tc.rng)
	}
}

func TestRange_WideningIsMonotonic(t *testing.T) {
	// Removing a clause from a conjunction can only admit more versions.
	narrow := domain.MustRange(">=1.2.0,<2.0.0")
	wide := domain.MustRange(">=1.2.0")

	for _, text := range []string{"1.2.0", "1.5.0", "1.9.9", "2.0.0", "3.1.4", "1.0.0"} {
		v := domain.MustVersion(text)
		if narrow.SatisfiedBy(v) {
			assert.True(t, wide.SatisfiedBy(v), "widening dropped %s", text)
		}
	}
}

func TestRange_Malformed(t *testing.T) {
	_, err := domain.ParseRange(">=>nope")
	require.ErrorIs(t, err, domain.ErrRangeParse)
}

func TestParseEngineVersion(t *testing.T) {
	ev, err := domain.ParseEngineVersion("2022.3.22f1")
	require.NoError(t, err)
	assert.Equal(t, 2022, ev.Major)
	assert.Equal(t, 3, ev.Minor)
	assert.Equal(t, 22, ev.Patch)
	assert.Equal(t, byte('f'), ev.ReleaseType)
	assert.Equal(t, 1, ev.Increment)
	assert.Equal(t, "2022.3.22f1", ev.String())

	short, err := domain.ParseEngineVersion("2019.4")
	require.NoError(t, err)
	assert.Equal(t, "2019.4", short.String())

	_, err = domain.ParseEngineVersion("not-a-version")
	require.ErrorIs(t, err, domain.ErrEngineVersionParse)
}

func TestEngineVersion_Compare(t *testing.T) {
	ordered := []string{
		"2019.4.31f1",
		"2021.3.0a5",
		"2021.3.0b2",
		"2021.3.0f1",
		"2021.3.0f2",
		"2021.3.1f1",
		"2022.1.0f1",
	}
	for i := 0; i < len(ordered)-1; i++ {
		a, err := domain.ParseEngineVersion(ordered[i])
		require.NoError(t, err)
		b, err := domain.ParseEngineVersion(ordered[i+1])
		require.NoError(t, err)
		assert.Negative(t, a.Compare(b), "%s < %s", ordered[i], ordered[i+1])
	}
}

func TestEngineRange_Allows(t *testing.T) {
	r, err := domain.ParseEngineRange("2019.4")
	require.NoError(t, err)

	newer, _ := domain.ParseEngineVersion("2022.3.22f1")
	same, _ := domain.ParseEngineVersion("2019.4.0f1")
	older, _ := domain.ParseEngineVersion("2018.4.20f1")

	assert.True(t, r.Allows(newer))
	assert.True(t, r.Allows(same))
	assert.False(t, r.Allows(older))

	// The empty range allows everything; an undeclared project engine
	// passes every range.
	any, err := domain.ParseEngineRange("")
	require.NoError(t, err)
	assert.True(t, any.Allows(older))
	assert.True(t, r.Allows(domain.EngineVersion{}))
}
