package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayTitle_FallsBackToFileName(t *testing.T) {
	file := &File{FileName: "rabbits.pdf"}
	assert.Equal(t, "rabbits.pdf", file.DisplayTitle())
}

func TestDisplayTitle_PrefersExplicitTitle(t *testing.T) {
	title := "Rabbits"
	file := &File{FileName: "rabbits.pdf", Title: &title}
	assert.Equal(t, "Rabbits", file.DisplayTitle())
}

func TestDisplayTitle_EmptyTitleFallsBack(t *testing.T) {
	title := ""
	file := &File{FileName: "rabbits.pdf", Title: &title}
	assert.Equal(t, "rabbits.pdf", file.DisplayTitle())
}
