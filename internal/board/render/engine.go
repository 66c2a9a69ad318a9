package render

import (
	"image"
	"image/color"

	"github.com/avtoclass/schedboard/internal/board/scene"
	"github.com/avtoclass/schedboard/internal/board/theme"
	"github.com/fogleman/gg"
	"go.uber.org/zap"
)

// Константы размеров и отступов
const (
	cellPaddingX     = 4.0
	slotBorderRadius = 4.0
	cardBorderRadius = 6.0
	shadowOffset     = 2.0
	ringWidth        = 2.0
	ringGap          = 1.0
	highlightWidth   = 3.0
	markerRadius     = 3.0
)

// Geometry размеры элементов доски в пикселях при масштабе 1.0
type Geometry struct {
	ColumnWidth     int
	ColumnGap       int
	ColumnsPerRow   int // перенос сетки колонок на новую строку
	RowGap          int
	DayGap          int
	DayPadding      int
	DayHeaderHeight int
	HeaderHeight    int // заголовок колонки
	SlotHeight      int
	SlotGap         int
	PaddingTop      int
	PaddingBottom   int
}

// DefaultGeometry размеры по умолчанию
func DefaultGeometry() Geometry {
	return Geometry{
		ColumnWidth:     160,
		ColumnGap:       8,
		ColumnsPerRow:   6,
		RowGap:          12,
		DayGap:          16,
		DayPadding:      8,
		DayHeaderHeight: 28,
		HeaderHeight:    36,
		SlotHeight:      24,
		SlotGap:         4,
		PaddingTop:      6,
		PaddingBottom:   6,
	}
}

// scaled возвращает геометрию, умноженную на масштаб
func (g Geometry) scaled(zoom float64) Geometry {
	if zoom <= 0 || zoom == 1 {
		return g
	}
	mul := func(v int) int {
		scaled := int(float64(v) * zoom)
		if v > 0 && scaled < 1 {
			return 1
		}
		return scaled
	}
	return Geometry{
		ColumnWidth:     mul(g.ColumnWidth),
		ColumnGap:       mul(g.ColumnGap),
		ColumnsPerRow:   g.ColumnsPerRow,
		RowGap:          mul(g.RowGap),
		DayGap:          mul(g.DayGap),
		DayPadding:      mul(g.DayPadding),
		DayHeaderHeight: mul(g.DayHeaderHeight),
		HeaderHeight:    mul(g.HeaderHeight),
		SlotHeight:      mul(g.SlotHeight),
		SlotGap:         mul(g.SlotGap),
		PaddingTop:      mul(g.PaddingTop),
		PaddingBottom:   mul(g.PaddingBottom),
	}
}

// dayWidth полная ширина дня
func (g Geometry) dayWidth() int {
	cols := g.ColumnsPerRow
	if cols <= 0 {
		cols = 1
	}
	return cols*g.ColumnWidth + (cols-1)*g.ColumnGap + 2*g.DayPadding
}

// columnHeight высота колонки с rows строками сетки
func (g Geometry) columnHeight(rows int) int {
	if rows <= 0 {
		return g.HeaderHeight + g.PaddingTop + g.PaddingBottom
	}
	return g.HeaderHeight + g.PaddingTop + rows*g.SlotHeight + (rows-1)*g.SlotGap + g.PaddingBottom
}

// Engine растеризует сцену в пиксели и строит хит-карту. Детерминирован:
// одинаковые сцена и вьюпорт дают одинаковый растр и одинаковую хит-карту.
type Engine struct {
	geo    Geometry
	theme  *theme.Cache
	fonts  *FontSet
	logger *zap.Logger
}

// NewEngine создаёт движок отрисовки
func NewEngine(geo Geometry, themeCache *theme.Cache, fonts *FontSet, logger *zap.Logger) *Engine {
	if themeCache == nil {
		themeCache = theme.NewCache(theme.Default())
	}
	if fonts == nil {
		fonts = BasicFonts()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{geo: geo, theme: themeCache, fonts: fonts, logger: logger}
}

// ThemeChanged сообщает движку о смене темы: кеш токенов сбрасывается,
// движок сам тему не опрашивает
func (e *Engine) ThemeChanged() {
	e.theme.Invalidate()
}

// MeasureNote ширина текста карточки, используется сборщиком для переноса
func (e *Engine) MeasureNote(s string) float64 {
	return MeasureString(e.fonts.Note, s)
}

// NoteWidth бюджет ширины текста карточки при масштабе сцены
func (e *Engine) NoteWidth(zoom float64) float64 {
	g := e.geo.scaled(zoom)
	return float64(g.ColumnWidth) - 2*cellPaddingX - 12
}

// DayStride ширина одного дня с зазором при указанном масштабе.
// Это ширина элемента для планировщика тайлов.
func (e *Engine) DayStride(zoom float64) float64 {
	g := e.geo.scaled(zoom)
	return float64(g.dayWidth() + g.DayGap)
}

// BoardSize полный размер доски в пикселях для сцены
func (e *Engine) BoardSize(sc *scene.Scene) (int, int) {
	g := e.geo.scaled(sc.Zoom)
	width := 0
	height := 1
	for _, day := range sc.Days {
		width += g.dayWidth() + g.DayGap
		if h := e.dayHeight(g, day); h > height {
			height = h
		}
	}
	if width <= 0 {
		width = 1
	}
	return width, height
}

// Draw растеризует сцену в пределах вьюпорта и возвращает изображение
// вместе с упорядоченной хит-картой
func (e *Engine) Draw(sc *scene.Scene, viewport image.Rectangle) (image.Image, HitMap, error) {
	g := e.geo.scaled(sc.Zoom)

	w, h := viewport.Dx(), viewport.Dy()
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	dc := gg.NewContext(w, h)
	dc.Translate(-float64(viewport.Min.X), -float64(viewport.Min.Y))
	dc.SetColor(e.theme.Resolve("board.bg"))
	dc.DrawRectangle(float64(viewport.Min.X), float64(viewport.Min.Y), float64(w), float64(h))
	dc.Fill()

	var hits HitMap
	x := 0
	for i := range sc.Days {
		day := &sc.Days[i]
		dayRect := image.Rect(x, 0, x+g.dayWidth(), e.dayHeight(g, *day))
		if dayRect.Overlaps(viewport) {
			hits = e.drawDay(dc, g, day, x, sc.HighlightedID, hits)
		}
		x += g.dayWidth() + g.DayGap
	}
	return dc.Image(), hits, nil
}

// dayHeight высота дня: заголовок плюс строки сетки колонок
func (e *Engine) dayHeight(g Geometry, day scene.Day) int {
	if !day.Materialized || len(day.Columns) == 0 {
		return g.DayHeaderHeight + g.HeaderHeight
	}
	height := g.DayHeaderHeight
	for _, rowHeight := range e.rowHeights(g, day.Columns) {
		height += rowHeight + g.RowGap
	}
	return height
}

// rowHeights высоты строк сетки: строка равна самой высокой колонке в ней
func (e *Engine) rowHeights(g Geometry, columns []scene.Column) []int {
	perRow := g.ColumnsPerRow
	if perRow <= 0 {
		perRow = 1
	}
	var heights []int
	for i, col := range columns {
		row := i / perRow
		for len(heights) <= row {
			heights = append(heights, 0)
		}
		if h := g.columnHeight(col.Rows); h > heights[row] {
			heights[row] = h
		}
	}
	return heights
}

func (e *Engine) drawDay(dc *gg.Context, g Geometry, day *scene.Day, dayX int, highlightedID int64, hits HitMap) HitMap {
	// Заголовок дня
	dc.SetColor(e.theme.Resolve("day.header"))
	dc.DrawRectangle(float64(dayX), 0, float64(g.dayWidth()), float64(g.DayHeaderHeight))
	dc.Fill()

	dc.SetFontFace(e.fonts.Day)
	dc.SetColor(e.theme.Resolve("board.text"))
	label := day.Date.Format("02.01 Mon")
	dc.DrawStringAnchored(label, float64(dayX)+float64(g.dayWidth())/2, float64(g.DayHeaderHeight)/2, 0.5, 0.35)

	if !day.Materialized {
		// Заглушка вместо полного дня: лёгкий прямоугольник без хит-зон
		dc.SetColor(e.theme.Resolve("day.placeholder"))
		dc.DrawRectangle(float64(dayX), float64(g.DayHeaderHeight), float64(g.dayWidth()), float64(g.HeaderHeight))
		dc.Fill()
		return hits
	}

	perRow := g.ColumnsPerRow
	if perRow <= 0 {
		perRow = 1
	}
	rowHeights := e.rowHeights(g, day.Columns)

	for i := range day.Columns {
		col := &day.Columns[i]
		rowIdx := i / perRow
		colIdx := i % perRow

		x := dayX + g.DayPadding + colIdx*(g.ColumnWidth+g.ColumnGap)
		y := g.DayHeaderHeight
		for r := 0; r < rowIdx; r++ {
			y += rowHeights[r] + g.RowGap
		}
		hits = e.drawColumn(dc, g, day, col, x, y, hits)
	}
	return hits
}

func (e *Engine) drawColumn(dc *gg.Context, g Geometry, day *scene.Day, col *scene.Column, x, y int, hits HitMap) HitMap {
	fx, fy := float64(x), float64(y)
	colW := float64(g.ColumnWidth)

	// Заголовок колонки
	dc.SetColor(e.theme.Resolve("column.header"))
	dc.DrawRoundedRectangle(fx, fy, colW, float64(g.HeaderHeight), slotBorderRadius)
	dc.Fill()
	if col.Highlighted {
		dc.SetColor(e.theme.Resolve("highlight"))
		dc.SetLineWidth(highlightWidth)
		dc.DrawRoundedRectangle(fx, fy, colW, float64(g.HeaderHeight), slotBorderRadius)
		dc.Stroke()
	}

	dc.SetFontFace(e.fonts.Header)
	dc.SetColor(e.theme.Resolve("board.text"))
	dc.DrawStringAnchored(col.Title, fx+colW/2, fy+float64(g.HeaderHeight)*0.35, 0.5, 0.35)
	if col.Subtitle != "" {
		dc.SetFontFace(e.fonts.Slot)
		dc.DrawStringAnchored(col.Subtitle, fx+colW/2, fy+float64(g.HeaderHeight)*0.75, 0.5, 0.35)
	}

	headerBounds := image.Rect(x, y, x+g.ColumnWidth, y+g.HeaderHeight)
	entry := HitEntry{
		Bounds:     headerBounds,
		Kind:       HitColumnHeader,
		Day:        day.Key,
		ColumnKind: col.Kind,
	}
	if col.Instructor != nil {
		entry.InstructorID = col.Instructor.ID
	}
	hits = append(hits, entry)

	slotTop := y + g.HeaderHeight + g.PaddingTop

	// Пустые и заблокированные слоты
	for _, cell := range col.Slots {
		sy := slotTop + cell.Row*(g.SlotHeight+g.SlotGap)
		rect := image.Rect(x+int(cellPaddingX), sy, x+g.ColumnWidth-int(cellPaddingX), sy+g.SlotHeight)
		hits = e.drawSlot(dc, g, day, col, cell, rect, hits)
	}

	// Карточки занятий поверх сетки слотов
	for i := range col.Events {
		card := &col.Events[i]
		cy := slotTop + card.Row*(g.SlotHeight+g.SlotGap)
		ch := card.Span*g.SlotHeight + (card.Span-1)*g.SlotGap
		rect := image.Rect(x+int(cellPaddingX), cy, x+g.ColumnWidth-int(cellPaddingX), cy+ch)
		hits = e.drawCard(dc, g, day, card, rect, hits)
	}
	return hits
}

// drawSlot рисует один пустой или заблокированный слот
func (e *Engine) drawSlot(dc *gg.Context, g Geometry, day *scene.Day, col *scene.Column, cell scene.SlotCell, rect image.Rectangle, hits HitMap) HitMap {
	fx, fy := float64(rect.Min.X), float64(rect.Min.Y)
	fw, fh := float64(rect.Dx()), float64(rect.Dy())

	if cell.Blocked {
		dc.SetColor(e.theme.Resolve("slot.blocked"))
		dc.DrawRoundedRectangle(fx, fy, fw, fh, slotBorderRadius)
		dc.Fill()
		// Заблокированный слот не интерактивен
		return hits
	}

	dc.SetColor(e.theme.Resolve("slot.empty"))
	dc.DrawRoundedRectangle(fx, fy, fw, fh, slotBorderRadius)
	dc.Fill()

	if !cell.Start.IsZero() {
		dc.SetFontFace(e.fonts.Slot)
		dc.SetColor(e.theme.Resolve("slot.text"))
		dc.DrawStringAnchored(cell.Start.Format("15:04"), fx+6, fy+fh/2, 0, 0.35)
	}

	drawRings(dc, fx, fy, fw, fh, slotBorderRadius, cell.DraftColors)

	entry := HitEntry{
		Bounds:     rect,
		Kind:       HitEmptySlot,
		Day:        day.Key,
		ColumnKind: col.Kind,
		SlotKey:    cell.Key,
		Start:      cell.Start,
		End:        cell.End,
	}
	if col.Instructor != nil {
		entry.InstructorID = col.Instructor.ID
	}
	return append(hits, entry)
}

// drawCard рисует карточку занятия
func (e *Engine) drawCard(dc *gg.Context, g Geometry, day *scene.Day, card *scene.EventCard, rect image.Rectangle, hits HitMap) HitMap {
	fx, fy := float64(rect.Min.X), float64(rect.Min.Y)
	fw, fh := float64(rect.Dx()), float64(rect.Dy())

	// Тень
	dc.SetColor(color.RGBA{0, 0, 0, 20})
	dc.DrawRoundedRectangle(fx+shadowOffset, fy+shadowOffset, fw, fh, cardBorderRadius)
	dc.Fill()

	dc.SetColor(card.Fill)
	dc.DrawRoundedRectangle(fx, fy, fw, fh, cardBorderRadius)
	dc.Fill()

	dc.SetColor(darkenColor(card.Fill, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(fx, fy, fw, fh, cardBorderRadius)
	dc.Stroke()

	if card.Highlighted {
		dc.SetColor(e.theme.Resolve("highlight"))
		dc.SetLineWidth(highlightWidth)
		dc.DrawRoundedRectangle(fx-2, fy-2, fw+4, fh+4, cardBorderRadius)
		dc.Stroke()
	}

	dc.SetFontFace(e.fonts.Slot)
	dc.SetColor(e.theme.Resolve("lesson.text"))
	textY := fy + 11
	dc.DrawStringAnchored(card.TimeLabel, fx+6, textY, 0, 0.35)

	dc.SetFontFace(e.fonts.Note)
	for _, line := range card.Lines {
		textY += noteFontSize + 2
		if textY > fy+fh-2 {
			break
		}
		dc.DrawStringAnchored(line, fx+6, textY, 0, 0.35)
	}

	// Маркеры флагов в правом верхнем углу
	markerX := fx + fw - 7
	if card.Important {
		dc.SetColor(color.RGBA{220, 60, 60, 255})
		dc.DrawCircle(markerX, fy+7, markerRadius)
		dc.Fill()
		markerX -= 2*markerRadius + 2
	}
	if card.Favorite {
		dc.SetColor(color.RGBA{240, 200, 60, 255})
		dc.DrawCircle(markerX, fy+7, markerRadius)
		dc.Fill()
	}

	drawRings(dc, fx, fy, fw, fh, cardBorderRadius, card.PresenceColors)

	return append(hits, HitEntry{
		Bounds:        rect,
		Kind:          HitReservation,
		Day:           day.Key,
		ColumnKind:    scene.ColumnInstructor,
		InstructorID:  card.InstructorID,
		ReservationID: card.ID,
		Start:         card.Start,
		End:           card.End,
	})
}

// drawRings рисует вложенные цветные кольца присутствия/черновиков:
// каждое следующее кольцо утоплено на ширину кольца плюс зазор
func drawRings(dc *gg.Context, x, y, w, h, radius float64, colors []string) {
	dc.SetLineWidth(ringWidth)
	for i, hex := range colors {
		inset := float64(i) * (ringWidth + ringGap)
		rw := w - 2*inset
		rh := h - 2*inset
		if rw <= 0 || rh <= 0 {
			break
		}
		dc.SetHexColor(hex)
		dc.DrawRoundedRectangle(x+inset, y+inset, rw, rh, radius)
		dc.Stroke()
	}
}

// darkenColor затемняет цвет на указанный множитель
func darkenColor(c color.Color, factor float64) color.Color {
	r, g, b, a := c.RGBA()
	return color.RGBA{
		R: uint8(float64(r>>8) * factor),
		G: uint8(float64(g>>8) * factor),
		B: uint8(float64(b>>8) * factor),
		A: uint8(a >> 8),
	}
}
