package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/tallybank/tallybank/internal/errors"
)

func TestFormatParseRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 3, 42, 1 << 40} {
		v, err := Parse(Format(n), true)
		require.NoError(t, err)
		assert.Equal(t, n, v)
	}
	assert.Equal(t, `"3"`, Format(3))
}

func TestParseMissing(t *testing.T) {
	_, err := Parse("", false)
	require.Error(t, err)
	assert.True(t, ierr.Is(err, ierr.ErrVersionRequired))
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"unquoted", "3"},
		{"missing closing quote", `"3`},
		{"missing opening quote", `3"`},
		{"empty interior", `""`},
		{"negative", `"-1"`},
		{"letters", `"abc"`},
		{"decimal", `"1.5"`},
		{"weak", `W/"3"`},
		{"list", `"1", "2"`},
		{"overflow", `"99999999999999999999"`},
		{"inner space", `" 3"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.token, true)
			require.Error(t, err)
			assert.True(t, ierr.Is(err, ierr.ErrVersionMalformed))
		})
	}
}

func TestCheck(t *testing.T) {
	assert.NoError(t, Check(`"2"`, true, 2))

	err := Check(`"1"`, true, 2)
	assert.True(t, ierr.Is(err, ierr.ErrVersionStale))

	err = Check(`"3"`, true, 2)
	assert.True(t, ierr.Is(err, ierr.ErrVersionAhead))

	err = Check("", false, 2)
	assert.True(t, ierr.Is(err, ierr.ErrVersionRequired))

	err = Check("2", true, 2)
	assert.True(t, ierr.Is(err, ierr.ErrVersionMalformed))
	assert.True(t, ierr.IsVersionError(err))
}

func TestNotModified(t *testing.T) {
	assert.True(t, NotModified(`"4"`, true, 4))
	assert.True(t, NotModified("*", true, 4))
	assert.False(t, NotModified(`"3"`, true, 4))
	assert.False(t, NotModified("", false, 4))
	assert.False(t, NotModified(`W/"4"`, true, 4))
}
