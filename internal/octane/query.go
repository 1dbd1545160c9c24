package octane

import (
	"context"
	"net/url"
	"strings"

	"github.com/octanebridge/octane/internal/debug"
)

// Query expressions use Octane's textual filter grammar, e.g.
//
//	"name EQ 'f' ; parent EQ {name EQ 'e' ; parent EQ {name EQ 'r'}}"
//
// The whole expression is wrapped in double quotes on the wire.

var literalEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quoteLiteral(v string) string {
	return "'" + literalEscaper.Replace(v) + "'"
}

func nameEQ(name string) string {
	return "name EQ " + quoteLiteral(name)
}

func parentEQ(inner string) string {
	return "parent EQ {" + inner + "}"
}

func and(terms ...string) string {
	return strings.Join(terms, " ; ")
}

func expr(s string) string {
	return `"` + s + `"`
}

// RootQuery matches the named work item root.
func RootQuery(root string) string {
	return expr(nameEQ(root))
}

// EpicsUnderRootQuery matches all epics below the named root.
func EpicsUnderRootQuery(root string) string {
	return expr(parentEQ(nameEQ(root)))
}

// EpicQuery matches the named epic below the named root.
func EpicQuery(root, epic string) string {
	return expr(and(nameEQ(epic), parentEQ(nameEQ(root))))
}

// FeaturesUnderEpicQuery matches all features below root/epic.
func FeaturesUnderEpicQuery(root, epic string) string {
	return expr(parentEQ(and(nameEQ(epic), parentEQ(nameEQ(root)))))
}

// FeatureQuery matches the named feature below root/epic.
func FeatureQuery(root, epic, feature string) string {
	return expr(and(nameEQ(feature), parentEQ(and(nameEQ(epic), parentEQ(nameEQ(root))))))
}

type entityRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type entityList struct {
	Data []entityRow `json:"data"`
}

// ListNames returns the names of all kind entities matching query, in server
// order. An empty query lists the whole collection. Only the first page of
// results is returned.
func (a *API) ListNames(ctx context.Context, kind Entity, query string) ([]string, error) {
	rows, err := a.queryEntities(ctx, kind, query, "name")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.Name)
	}
	debug.Logf("octane: names(%s, %s) = %v\n", kind.Plural(), query, names)
	return names, nil
}

// IDFor returns the id of the first kind entity matching query.
// It fails with KindResponse when nothing matches.
func (a *API) IDFor(ctx context.Context, kind Entity, query string) (string, error) {
	rows, err := a.queryEntities(ctx, kind, query, "id")
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", &Error{
			Kind:    KindResponse,
			Op:      "GET " + kind.Plural(),
			Message: "no " + kind.Singular() + " matches " + query,
		}
	}
	if len(rows) > 1 {
		debug.Logf("octane: %d %s match %s, using %s\n", len(rows), kind.Plural(), query, rows[0].ID)
	}
	debug.Logf("octane: id(%s, %s) = %s\n", kind.Plural(), query, rows[0].ID)
	return rows[0].ID, nil
}

func (a *API) queryEntities(ctx context.Context, kind Entity, query string, fields ...string) ([]entityRow, error) {
	params := url.Values{}
	if strings.TrimSpace(query) != "" {
		params.Set("query", query)
	}
	if len(fields) > 0 {
		params.Set("fields", strings.Join(fields, ","))
	}
	var list entityList
	if err := a.r.Do(ctx, "GET", kind.Plural(), params, nil, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}

// RootNames lists every work item root.
func (a *API) RootNames(ctx context.Context) ([]string, error) {
	return a.ListNames(ctx, WorkItemRoot, "")
}

// EpicNames lists epics under root. A blank root yields nil without a request.
func (a *API) EpicNames(ctx context.Context, root string) ([]string, error) {
	if blank(root) {
		return nil, nil
	}
	return a.ListNames(ctx, Epic, EpicsUnderRootQuery(root))
}

// FeatureNames lists features under root/epic. Blank inputs yield nil
// without a request.
func (a *API) FeatureNames(ctx context.Context, root, epic string) ([]string, error) {
	if blank(root, epic) {
		return nil, nil
	}
	return a.ListNames(ctx, Feature, FeaturesUnderEpicQuery(root, epic))
}

// RootID resolves a root name. A blank name yields "" without a request.
func (a *API) RootID(ctx context.Context, root string) (string, error) {
	if blank(root) {
		return "", nil
	}
	return a.IDFor(ctx, WorkItemRoot, RootQuery(root))
}

// EpicID resolves root/epic. Blank inputs yield "" without a request.
func (a *API) EpicID(ctx context.Context, root, epic string) (string, error) {
	if blank(root, epic) {
		return "", nil
	}
	return a.IDFor(ctx, Epic, EpicQuery(root, epic))
}

// FeatureID resolves root/epic/feature. Blank inputs yield "" without a request.
func (a *API) FeatureID(ctx context.Context, root, epic, feature string) (string, error) {
	if blank(root, epic, feature) {
		return "", nil
	}
	return a.IDFor(ctx, Feature, FeatureQuery(root, epic, feature))
}
