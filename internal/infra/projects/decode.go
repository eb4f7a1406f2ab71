package projects

import (
	"github.com/runoshun/tissue/internal/domain"
)

// GraphQL typenames of project field nodes.
const (
	typeField             = "ProjectV2Field"
	typeSingleSelectField = "ProjectV2SingleSelectField"
	typeIterationField    = "ProjectV2IterationField"
)

// scopeResponse is the "data" member of the three discovery queries.
// Exactly one owner is populated per query; a missing owner decodes as nil.
type scopeResponse struct {
	Repository   *ownerNode `json:"repository"`
	Organization *ownerNode `json:"organization"`
	User         *ownerNode `json:"user"`
}

func (r *scopeResponse) owner() *ownerNode {
	switch {
	case r.Repository != nil:
		return r.Repository
	case r.Organization != nil:
		return r.Organization
	default:
		return r.User
	}
}

type ownerNode struct {
	ProjectsV2 struct {
		Nodes []*projectNode `json:"nodes"`
	} `json:"projectsV2"`
}

type projectNode struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	URL    string `json:"url"`
	Fields struct {
		Nodes []*fieldNode `json:"nodes"`
	} `json:"fields"`
	Views struct {
		Nodes []*viewNode `json:"nodes"`
	} `json:"views"`
	Number int `json:"number"`
}

// fieldNode carries the union of all field fragments.
type fieldNode struct {
	Typename string       `json:"__typename"`
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	DataType string       `json:"dataType"`
	Options  []optionNode `json:"options"`
}

type viewNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type optionNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type optionsResponse struct {
	Node *struct {
		Options []optionNode `json:"options"`
	} `json:"node"`
}

type addItemResponse struct {
	AddProjectV2ItemByID struct {
		Item struct {
			ID string `json:"id"`
		} `json:"item"`
	} `json:"addProjectV2ItemById"`
}

// toField converts a field node. It reports false for nodes that matched no fragment
// and for built-in issue fields.
func (n *fieldNode) toField() (domain.ProjectField, bool) {
	if n == nil || n.ID == "" || n.Name == "" {
		return domain.ProjectField{}, false
	}

	var field domain.ProjectField
	switch n.Typename {
	case typeSingleSelectField:
		field = domain.ProjectField{ID: n.ID, Name: n.Name, DataType: domain.FieldTypeSingleSelect}
		for _, opt := range n.Options {
			field.Options = append(field.Options, opt.Name)
		}
	case typeIterationField:
		field = domain.ProjectField{ID: n.ID, Name: n.Name, DataType: domain.FieldTypeIteration}
	case typeField:
		field = domain.ProjectField{ID: n.ID, Name: n.Name, DataType: domain.FieldDataType(n.DataType)}
	default:
		return domain.ProjectField{}, false
	}

	if domain.IsBuiltinField(field.Name) {
		return domain.ProjectField{}, false
	}
	return field, true
}

// toDescriptor converts a project node. Views become columns first, then the options
// of a single-select Status field.
func (n *projectNode) toDescriptor(scope domain.ProjectScope) domain.ProjectDescriptor {
	p := domain.ProjectDescriptor{
		ID:     n.ID,
		Number: n.Number,
		Title:  n.Title,
		URL:    n.URL,
		Scope:  scope,
	}

	for _, node := range n.Fields.Nodes {
		if field, ok := node.toField(); ok {
			p.Fields = append(p.Fields, field)
		}
	}

	for _, v := range n.Views.Nodes {
		if v == nil || v.ID == "" {
			continue
		}
		p.Columns = append(p.Columns, domain.ProjectColumn{ID: v.ID, Name: v.Name})
	}
	p.Columns = append(p.Columns, domain.StatusColumns(p.Fields)...)

	return p
}
