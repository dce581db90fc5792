package content

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTextMessage(t *testing.T) {
	msg := TextMessage(RoleUser, "hello")
	require.Equal(t, "user", msg.Role)
	require.Len(t, msg.Content, 1)
	require.Equal(t, ContentTypeText, msg.Content[0].Type)
	require.Equal(t, "hello", msg.Content[0].Text)
}

func TestJoinTextSkipsUnknownBlocks(t *testing.T) {
	blocks := []ContentBlock{
		{Type: ContentTypeText, Text: "{\"a\":"},
		{Type: "image/png", Text: "ignored"},
		{Type: ContentTypeJSON, Text: "1}"},
	}
	require.Equal(t, "{\"a\":1}", JoinText(blocks))
}
