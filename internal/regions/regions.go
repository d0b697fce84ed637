// Package regions holds the fixed registry of Ukrainian administrative units
// tracked by the alerts.in.ua IoT API: 24 oblasts, Crimea and the two cities
// with special status. The API encodes statuses as one character per region,
// ordered by ascending region UID.
package regions

import "sort"

// UIDMap maps alerts.in.ua region UIDs to canonical display names.
var UIDMap = map[int]string{
	3:  "Хмельницька область",
	4:  "Вінницька область",
	5:  "Рівненська область",
	8:  "Волинська область",
	9:  "Дніпропетровська область",
	10: "Житомирська область",
	11: "Закарпатська область",
	12: "Запорізька область",
	13: "Івано-Франківська область",
	14: "Київська область",
	15: "Кіровоградська область",
	16: "Луганська область",
	17: "Миколаївська область",
	18: "Одеська область",
	19: "Полтавська область",
	20: "Сумська область",
	21: "Тернопільська область",
	22: "Харківська область",
	23: "Херсонська область",
	24: "Черкаська область",
	25: "Чернігівська область",
	26: "Чернівецька область",
	27: "Львівська область",
	28: "Донецька область",
	29: "Автономна Республіка Крим",
	30: "м. Севастополь",
	31: "м. Київ",
}

// Capital is the priority region that gets a dedicated notification path.
const Capital = "м. Київ"

// priority regions receive the elevated notification template.
var priority = map[string]bool{
	Capital: true,
}

// SortedUIDs returns region UIDs in ascending order. Position i of the raw
// status string corresponds to SortedUIDs()[i].
func SortedUIDs() []int {
	uids := make([]int, 0, len(UIDMap))
	for uid := range UIDMap {
		uids = append(uids, uid)
	}
	sort.Ints(uids)
	return uids
}

// Count returns the number of known regions.
func Count() int {
	return len(UIDMap)
}

// IsPriority reports whether the region gets elevated notification handling.
func IsPriority(name string) bool {
	return priority[name]
}
