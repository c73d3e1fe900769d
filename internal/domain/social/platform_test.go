package social

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatform_IsValid(t *testing.T) {
	for _, p := range AllPlatforms() {
		assert.True(t, p.IsValid(), p.String())
	}
	assert.False(t, Platform("myspace").IsValid())
	assert.False(t, Platform("").IsValid())
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Platform
		wantErr error
	}{
		{name: "exact match", input: "tiktok", want: PlatformTikTok},
		{name: "mixed case", input: "TikTok", want: PlatformTikTok},
		{name: "surrounding whitespace", input: " instagram ", want: PlatformInstagram},
		{name: "twitter alias", input: "twitter", want: PlatformX},
		{name: "unknown", input: "myspace", wantErr: ErrPlatformUnsupported},
		{name: "empty", input: "", wantErr: ErrPlatformUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePlatform(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePlatforms(t *testing.T) {
	t.Run("deduplicates preserving order", func(t *testing.T) {
		got, err := ParsePlatforms([]string{"x", "tiktok", "X", "twitter"})
		require.NoError(t, err)
		assert.Equal(t, []Platform{PlatformX, PlatformTikTok}, got)
	})

	t.Run("rejects unknown entries", func(t *testing.T) {
		_, err := ParsePlatforms([]string{"tiktok", "bebo"})
		assert.ErrorIs(t, err, ErrPlatformUnsupported)
	})

	t.Run("empty input", func(t *testing.T) {
		got, err := ParsePlatforms(nil)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestPlatform_DisplayName(t *testing.T) {
	assert.Equal(t, "TikTok", PlatformTikTok.DisplayName())
	assert.Equal(t, "X", PlatformX.DisplayName())
	assert.Equal(t, "unknown", Platform("unknown").DisplayName())
}
