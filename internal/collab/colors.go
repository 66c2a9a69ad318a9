package collab

import "hash/fnv"

// MaxOverlayColors максимум различимых цветов на одной сущности при отрисовке
const MaxOverlayColors = 3

// fallbackPalette фиксированная палитра для пользователей без цвета профиля
var fallbackPalette = []string{
	"#e6194b",
	"#3cb44b",
	"#4363d8",
	"#f58231",
	"#911eb4",
	"#46f0f0",
	"#f032e6",
	"#9a6324",
}

// FallbackColor возвращает стабильный цвет из палитры по хешу идентификатора
func FallbackColor(userID string) string {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return fallbackPalette[h.Sum32()%uint32(len(fallbackPalette))]
}

// resolveColors отображает идентификаторы участников в цвета: цвет профиля
// если известен, иначе стабильный цвет из палитры. Не более MaxOverlayColors
// различных цветов, порядок участников сохраняется.
func resolveColors(userIDs []string, profiles map[string]string) []string {
	var colors []string
	seen := make(map[string]struct{})
	for _, id := range userIDs {
		color, ok := profiles[id]
		if !ok || color == "" {
			color = FallbackColor(id)
		}
		if _, dup := seen[color]; dup {
			continue
		}
		seen[color] = struct{}{}
		colors = append(colors, color)
		if len(colors) == MaxOverlayColors {
			break
		}
	}
	return colors
}
