package render

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// Размеры шрифтов доски
const (
	dayFontSize    = 16.0
	headerFontSize = 13.0
	slotFontSize   = 11.0
	noteFontSize   = 11.0
)

// FontSet шрифты движка отрисовки
type FontSet struct {
	Day    font.Face
	Header font.Face
	Slot   font.Face
	Note   font.Face
}

// BasicFonts набор из встроенного растрового шрифта. Детерминирован и
// не требует файлов, используется как fallback и в тестах.
func BasicFonts() *FontSet {
	face := basicfont.Face7x13
	return &FontSet{Day: face, Header: face, Slot: face, Note: face}
}

// LoadFonts загружает шрифт из файла и готовит face нужных размеров.
// Пустой путь или ошибка загрузки дают встроенный шрифт.
func LoadFonts(path string) (*FontSet, error) {
	if path == "" {
		return BasicFonts(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return BasicFonts(), fmt.Errorf("read font %s: %w", path, err)
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return BasicFonts(), fmt.Errorf("parse font %s: %w", path, err)
	}

	newFace := func(size float64) (font.Face, error) {
		return opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
	}

	fs := &FontSet{}
	for _, item := range []struct {
		target *font.Face
		size   float64
	}{
		{&fs.Day, dayFontSize},
		{&fs.Header, headerFontSize},
		{&fs.Slot, slotFontSize},
		{&fs.Note, noteFontSize},
	} {
		face, err := newFace(item.size)
		if err != nil {
			return BasicFonts(), fmt.Errorf("build font face: %w", err)
		}
		*item.target = face
	}
	return fs, nil
}

// MeasureString ширина строки в пикселях для указанного face
func MeasureString(face font.Face, s string) float64 {
	return float64(font.MeasureString(face, s)) / 64.0
}
