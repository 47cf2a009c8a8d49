package ui

import (
	"bytes"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	regularFace *text.GoTextFace
	boldFace    *text.GoTextFace
)

const (
	defaultFontSize = 14.0
	titleFontSize   = 18.0
)

func init() {
	initFonts()
}

func initFonts() {
	regularSource, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Error().Err(err).Msg("failed to load regular font")
		return
	}
	regularFace = &text.GoTextFace{Source: regularSource, Size: defaultFontSize}

	boldSource, err := text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	if err != nil {
		log.Error().Err(err).Msg("failed to load bold font")
		return
	}
	boldFace = &text.GoTextFace{Source: boldSource, Size: titleFontSize}
}
