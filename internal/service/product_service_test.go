package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/ragway/internal/model"
)

func TestRenderProductText(t *testing.T) {
	product := &model.Product{
		Title:       "Widget",
		Description: "A very good widget",
		URL:         "http://shop/widget",
		Attributes:  `[{"name":"Material"}]`,
		Variations:  `[{"name":"Color"}]`,
	}
	got := renderProductText(product)
	require.Equal(t, "Title: Widget\nDescription: A very good widget\nURL: http://shop/widget\n"+
		`Attributes: [{"name":"Material"}]`+"\n"+`Variations: [{"name":"Color"}]`, got)
}
