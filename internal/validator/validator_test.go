package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uploadForm struct {
	Filename string `form:"filename" validate:"required,image-ext"`
}

func TestImageExtRule(t *testing.T) {
	v := New([]string{"png", "jpg", "jpeg", ".gif"})

	for _, name := range []string{"leaf.jpg", "LEAF.JPG", "a.b.png", "x.jpeg", "anim.GIF", ".png"} {
		assert.NoError(t, v.Validate(&uploadForm{Filename: name}), name)
	}

	for _, name := range []string{"doc.pdf", "png", "leaf.jpg.exe", "leaf.", "archive.tar.gz", "leaf.webp"} {
		err := v.Validate(&uploadForm{Filename: name})
		require.Error(t, err, name)

		vErr, ok := err.(*ValidationError)
		require.True(t, ok)
		tag, failed := vErr.Failed("filename")
		assert.True(t, failed)
		assert.Equal(t, TagImageExt, tag)
	}
}

func TestRequiredBeforeExtension(t *testing.T) {
	v := New([]string{"png"})

	err := v.Validate(&uploadForm{})
	require.Error(t, err)
	vErr := err.(*ValidationError)
	tag, _ := vErr.Failed("filename")
	assert.Equal(t, "required", tag)
	assert.Contains(t, vErr.Error(), "filename")
}
