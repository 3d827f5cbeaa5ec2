package activity

import (
	"strings"
	"time"
)

const (
	VerbDocumentCreated = "document.created"
	VerbDocumentChanged = "document.changed"
	VerbDocumentSaved   = "document.saved"
	VerbDocumentFetched = "document.fetched"

	ObjectTypeDocument = "document"
)

// DocumentEventInput describes the common fields for document lifecycle
// events.
type DocumentEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	ObjectID       string
	Domain         string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	// Path is the dotted path of the changed attribute relative to the root.
	Path string
	// EventName is the node event that produced the activity, for example
	// "change:shipping.street".
	EventName  string
	OldValue   any
	NewValue   any
	SnapshotID string
	ETag       string
	OccurredAt time.Time
}

// BuildDocumentCreatedEvent constructs an activity event for a new root.
func BuildDocumentCreatedEvent(input DocumentEventInput) Event {
	return buildDocumentEvent(VerbDocumentCreated, input)
}

// BuildDocumentChangedEvent constructs an activity event for a change that
// reached the root of a document tree.
func BuildDocumentChangedEvent(input DocumentEventInput) Event {
	return buildDocumentEvent(VerbDocumentChanged, input)
}

// BuildDocumentSavedEvent constructs an activity event for a persisted root.
func BuildDocumentSavedEvent(input DocumentEventInput) Event {
	return buildDocumentEvent(VerbDocumentSaved, input)
}

// BuildDocumentFetchedEvent constructs an activity event for a root reloaded
// from storage.
func BuildDocumentFetchedEvent(input DocumentEventInput) Event {
	return buildDocumentEvent(VerbDocumentFetched, input)
}

func buildDocumentEvent(verb string, input DocumentEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	if domain := strings.TrimSpace(input.Domain); domain != "" {
		set("domain", domain)
	}
	if name := strings.TrimSpace(input.EventName); name != "" {
		set("event", name)
	}
	if input.SnapshotID != "" {
		set("snapshot_id", input.SnapshotID)
	}
	if input.ETag != "" {
		set("etag", input.ETag)
	}
	if input.OldValue != nil {
		set("old_value", input.OldValue)
	}
	if input.NewValue != nil {
		set("new_value", input.NewValue)
	}

	var recipients []string
	if len(input.Recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.SnapshotID)
	}
	if objectID == "" {
		objectID = ObjectTypeDocument
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     ObjectTypeDocument,
		ObjectID:       objectID,
		Path:           strings.TrimSpace(input.Path),
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}
