package octane

// Entity is one of the Octane entity types this integration touches.
type Entity int

const (
	WorkItemRoot Entity = iota
	Epic
	Feature
	Defect
	Phase
	WorkItem
	Comment
)

var entityNames = [...]string{
	WorkItemRoot: "work_item_root",
	Epic:         "epic",
	Feature:      "feature",
	Defect:       "defect",
	Phase:        "phase",
	WorkItem:     "work_item",
	Comment:      "comment",
}

// Entities returns the full catalog in declaration order.
func Entities() []Entity {
	return []Entity{WorkItemRoot, Epic, Feature, Defect, Phase, WorkItem, Comment}
}

// Singular is the name used in reference objects, e.g. "epic".
func (e Entity) Singular() string {
	if int(e) < 0 || int(e) >= len(entityNames) {
		return ""
	}
	return entityNames[e]
}

// Plural is the collection name used in URL paths, e.g. "epics".
func (e Entity) Plural() string {
	s := e.Singular()
	if s == "" {
		return ""
	}
	return s + "s"
}

func (e Entity) String() string {
	return e.Singular()
}

// Ref builds the {"type": ..., "id": ...} reference for an entity instance.
func (e Entity) Ref(id string) Reference {
	return Reference{Type: e.Singular(), ID: id}
}

// Reference points at an entity instance on the wire.
type Reference struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Defect phase identifiers.
const (
	PhaseDefectNew          = "phase.defect.new"
	PhaseDefectOpened       = "phase.defect.opened"
	PhaseDefectDeferred     = "phase.defect.deferred"
	PhaseDefectFixed        = "phase.defect.fixed"
	PhaseDefectProposeClose = "phase.defect.proposeclose"
	PhaseDefectClosed       = "phase.defect.closed"
	PhaseDefectRejected     = "phase.defect.rejected"
)
