package studio

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const validResult = `{"script":"**Hook** line","title":"Creeper Chaos","description":"A short description.","tags":["minecraft","funny"],"hashtags":["#minecraft","#shorts"],"thumbnailIdea":"Steve screaming"}`

func TestValidateResultAcceptsCompleteObject(t *testing.T) {
	result, err := ValidateResult([]byte(validResult))
	require.NoError(t, err)
	require.Equal(t, "Creeper Chaos", result.Title)
	require.Equal(t, []string{"minecraft", "funny"}, result.Tags)
	require.Equal(t, []string{"#minecraft", "#shorts"}, result.Hashtags)
	require.Equal(t, "Steve screaming", result.ThumbnailIdea)
}

func TestValidateResultRejectsShapeMismatch(t *testing.T) {
	cases := map[string]string{
		"missing field":     `{"script":"s","title":"t","description":"d","tags":[],"hashtags":[]}`,
		"tags not array":    `{"script":"s","title":"t","description":"d","tags":"a,b","hashtags":[],"thumbnailIdea":"i"}`,
		"numeric tag":       `{"script":"s","title":"t","description":"d","tags":[1],"hashtags":[],"thumbnailIdea":"i"}`,
		"hashtag no prefix": `{"script":"s","title":"t","description":"d","tags":[],"hashtags":["nohash"],"thumbnailIdea":"i"}`,
		"empty title":       `{"script":"s","title":"","description":"d","tags":[],"hashtags":[],"thumbnailIdea":"i"}`,
		"not an object":     `["a"]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ValidateResult([]byte(raw))
			require.Error(t, err)
		})
	}
}
