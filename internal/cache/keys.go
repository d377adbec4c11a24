package cache

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

const separator = "_"

// Namespaces for the keys the API derives.
const (
	NamespaceHome           = "home_data"
	NamespaceSearch         = "search"
	NamespaceMedia          = "media"
	NamespaceUserWatchlists = "user_watchlists"
	NamespaceWatchlist      = "watchlist"
	NamespaceWatchlistItems = "watchlist_items"
	NamespaceUserProfile    = "user_profile"

	pageSuffix    = "_page"
	detailsSuffix = "_details"
)

// Param is one input that changes the cached response.
type Param struct {
	Name  string
	Value any
}

func P(name string, value any) Param {
	return Param{Name: name, Value: value}
}

// schemas fixes the slot order of namespaces whose keys are positional.
var schemas = map[string][]string{
	NamespaceSearch: {"query", "page", "include_adult", "language", "media_type"},
	NamespaceMedia:  {"media_type", "id"},
}

func schemaFor(namespace string) []string {
	if s, ok := schemas[namespace]; ok {
		return s
	}
	if strings.HasSuffix(namespace, pageSuffix) {
		return []string{"page"}
	}
	return nil
}

var escaper = strings.NewReplacer("%", "%25", "_", "%5F", "=", "%3D")

func escape(s string) string {
	return escaper.Replace(s)
}

func render(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

// KeyFor builds the cache key for namespace, an optional entity id and params.
//
// Namespaces with a schema render one slot per schema parameter in schema order.
// An absent parameter and an empty value render the same empty slot. A schema
// parameter given more than once keeps its smallest rendered value in the slot
// and the rest are treated as extras. Extras are appended as name=value, sorted
// by name then value, so the caller's ordering never matters. Separator
// characters inside values are escaped, which keeps distinct inputs from
// producing the same key.
func KeyFor(namespace, id string, params ...Param) string {
	var b strings.Builder
	b.WriteString(namespace)
	if id != "" {
		b.WriteString(separator)
		b.WriteString(escape(id))
	}

	schema := schemaFor(namespace)
	values := make(map[string][]string, len(schema))
	var extra []Param
	for _, p := range params {
		if slices.Contains(schema, p.Name) {
			values[p.Name] = append(values[p.Name], render(p.Value))
			continue
		}
		extra = append(extra, p)
	}

	for _, name := range schema {
		b.WriteString(separator)
		vs := values[name]
		if len(vs) == 0 {
			continue
		}
		slices.Sort(vs)
		b.WriteString(escape(vs[0]))
		for _, v := range vs[1:] {
			extra = append(extra, P(name, v))
		}
	}

	slices.SortFunc(extra, func(x, y Param) int {
		return cmp.Or(cmp.Compare(x.Name, y.Name), cmp.Compare(render(x.Value), render(y.Value)))
	})
	for _, p := range extra {
		b.WriteString(separator)
		b.WriteString(escape(p.Name))
		b.WriteString("=")
		b.WriteString(escape(render(p.Value)))
	}

	return b.String()
}

// HomeKey is the single key of the aggregated home feed.
func HomeKey() string {
	return NamespaceHome
}

// PageKey is {category}_page_{page}.
func PageKey(category string, page int) string {
	return KeyFor(category+pageSuffix, "", P("page", page))
}

// DetailsKey is {kind}_details_{id}.
func DetailsKey(kind string, id int) string {
	return KeyFor(kind+detailsSuffix, strconv.Itoa(id))
}

// SearchKey is search_{query}_{page}_{include_adult}_{language}_{media_type}; an
// empty media type is keyed as "all".
func SearchKey(query string, page int, includeAdult bool, language, mediaType string) string {
	if mediaType == "" {
		mediaType = "all"
	}
	return KeyFor(NamespaceSearch, "",
		P("query", query),
		P("page", page),
		P("include_adult", includeAdult),
		P("language", language),
		P("media_type", mediaType),
	)
}

// MediaKey is media_{media_type}_{id}.
func MediaKey(mediaType string, id int) string {
	return KeyFor(NamespaceMedia, "", P("media_type", strings.ToLower(mediaType)), P("id", id))
}

func UserWatchlistsKey(userID string) string {
	return KeyFor(NamespaceUserWatchlists, userID)
}

func WatchlistKey(watchlistID string) string {
	return KeyFor(NamespaceWatchlist, watchlistID)
}

func WatchlistItemsKey(watchlistID string) string {
	return KeyFor(NamespaceWatchlistItems, watchlistID)
}

func ProfileKey(userID string) string {
	return KeyFor(NamespaceUserProfile, userID)
}
