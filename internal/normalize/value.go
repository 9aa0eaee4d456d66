package normalize

import (
	"strings"

	"github.com/spf13/cast"
)

// str — мягкое приведение к строке: несовместимые значения дают "".
func str(v any) string {
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// firstString возвращает первое значение, дающее непустую строку.
func firstString(values ...any) string {
	for _, v := range values {
		if s := strings.TrimSpace(str(v)); s != "" {
			return s
		}
	}
	return ""
}

// defaultString подставляет fallback вместо пустой строки.
func defaultString(v any, fallback string) string {
	if s := strings.TrimSpace(str(v)); s != "" {
		return s
	}
	return fallback
}

// asMap возвращает значение как карту или nil.
func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return nil
}

// mapList приводит значение к последовательности карт.
// Всё, что не последовательность, даёт пустой срез; не-объекты внутри
// последовательности отбрасываются.
func mapList(v any) []map[string]any {
	items, ok := v.([]any)
	if !ok {
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(items))
	for _, it := range items {
		if m, ok := it.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// stringList приводит значение к срезу непустых строк.
func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(str(it)); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
