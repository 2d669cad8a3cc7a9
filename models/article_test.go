package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validArticle() Article {
	return Article{
		Id:    "abc123",
		Title: "A title",
		Date:  "2024-01-01",
		Url:   "http://x/a",
		Content: []ContentBlock{
			{Kind: BlockKindText, Value: "body text"},
			{Kind: BlockKindCode, Value: "print(1)", Language: "python"},
			{Kind: BlockKindImage, Value: "http://x/a.png"},
		},
	}
}

func TestValidate(t *testing.T) {
	article := validArticle()
	require.NoError(t, article.Validate())

	article = validArticle()
	article.Id = ""
	require.Error(t, article.Validate())

	article = validArticle()
	article.Title = ""
	require.Error(t, article.Validate())

	article = validArticle()
	article.Url = ""
	require.Error(t, article.Validate())

	article = validArticle()
	article.Content = nil
	require.Error(t, article.Validate())

	article = validArticle()
	article.Content[0].Kind = "video"
	require.Error(t, article.Validate())

	article = validArticle()
	article.Content[1].Value = ""
	require.Error(t, article.Validate())
}
