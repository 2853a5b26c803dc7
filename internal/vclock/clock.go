package vclock

import (
	"sort"
	"strconv"
	"strings"
)

// Ordering представляет результат причинного сравнения двух векторных часов.
type Ordering int

const (
	// Equal - часы идентичны, записи представляют одно и то же состояние.
	Equal Ordering = iota
	// Before - первые часы причинно предшествуют вторым (устаревшая запись).
	Before
	// After - первые часы причинно следуют за вторыми (более новая запись).
	After
	// Concurrent - часы несравнимы: изменения сделаны независимо и конфликтуют.
	Concurrent
)

// String возвращает имя результата сравнения для логов и диагностики.
func (o Ordering) String() string {
	switch o {
	case Equal:
		return "equal"
	case Before:
		return "before"
	case After:
		return "after"
	case Concurrent:
		return "concurrent"
	default:
		return "unknown"
	}
}

// Clock представляет векторные часы: отображение идентификатора узла в счетчик
// локальных изменений этого узла. Отсутствующий узел эквивалентен счетчику 0,
// поэтому пустые часы - валидное начальное состояние любой записи.
// Clock не защищен мьютексом: владелец сериализует доступ сам.
type Clock map[string]uint64

// New создает пустые векторные часы.
func New() Clock {
	return make(Clock)
}

// Counter возвращает счетчик заданного узла. Неизвестный узел считается нулем.
func (c Clock) Counter(nodeID string) uint64 {
	return c[nodeID]
}

// Clone возвращает независимую копию часов.
// Изменения копии не затрагивают оригинал.
func (c Clock) Clone() Clock {
	out := make(Clock, len(c))
	for node, counter := range c {
		out[node] = counter
	}
	return out
}

// Increment возвращает копию часов со счетчиком узла nodeID, увеличенным на 1.
// Исходные часы не изменяются. Вызывается при каждой локальной записи.
func (c Clock) Increment(nodeID string) Clock {
	out := c.Clone()
	out[nodeID]++
	return out
}

// Merge возвращает поэлементный максимум двух часов.
// Операция коммутативна, ассоциативна и идемпотентна; входные часы не изменяются.
// Используется при приеме удаленного состояния и при разрешении конфликтов.
func Merge(a, b Clock) Clock {
	out := make(Clock, len(a)+len(b))
	for node, counter := range a {
		out[node] = counter
	}
	for node, counter := range b {
		if counter > out[node] {
			out[node] = counter
		}
	}
	return out
}

// Compare определяет причинное отношение часов a к часам b.
//
// a доминирует над b, если каждый счетчик a не меньше соответствующего счетчика b
// и хотя бы один строго больше. Тогда Compare возвращает After. Симметрично для
// Before. Если ни одни часы не доминируют и они не равны - изменения независимы,
// результат Concurrent.
func Compare(a, b Clock) Ordering {
	var aGreater, bGreater bool

	for node, ac := range a {
		bc := b[node]
		switch {
		case ac > bc:
			aGreater = true
		case ac < bc:
			bGreater = true
		}
	}
	for node, bc := range b {
		if _, seen := a[node]; seen {
			continue
		}
		if bc > 0 {
			bGreater = true
		}
	}

	switch {
	case aGreater && bGreater:
		return Concurrent
	case aGreater:
		return After
	case bGreater:
		return Before
	default:
		return Equal
	}
}

// Dominates сообщает, следуют ли часы c строго после other.
// Эквивалентно Compare(c, other) == After.
func (c Clock) Dominates(other Clock) bool {
	return Compare(c, other) == After
}

// String возвращает каноническое представление часов с узлами в
// лексикографическом порядке, например "A:2,B:1". Пустые часы - "∅".
// Используется в логах; формат не предназначен для разбора.
func (c Clock) String() string {
	if len(c) == 0 {
		return "∅"
	}

	nodes := make([]string, 0, len(c))
	for node := range c {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	var sb strings.Builder
	for i, node := range nodes {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(node)
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatUint(c[node], 10))
	}
	return sb.String()
}
