package cloudevent

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cloudevents/sdk-go/v2/event"
)

// LegacyDecoder converts the legacy background-function JSON envelope into a
// CloudEvent. Raw Pub/Sub push payloads are recognized as well.
//
// The envelope carries eventId, timestamp, eventType and resource either at
// the top level or nested under "context", with the payload under "data".
type LegacyDecoder struct{}

// legacyTypes maps legacy event types to CloudEvent types.
var legacyTypes = map[string]string{
	"google.pubsub.topic.publish":                              "google.cloud.pubsub.topic.v1.messagePublished",
	"providers/cloud.pubsub/eventTypes/topic.publish":          "google.cloud.pubsub.topic.v1.messagePublished",
	"google.storage.object.finalize":                           "google.cloud.storage.object.v1.finalized",
	"google.storage.object.delete":                             "google.cloud.storage.object.v1.deleted",
	"google.storage.object.archive":                            "google.cloud.storage.object.v1.archived",
	"google.storage.object.metadataUpdate":                     "google.cloud.storage.object.v1.metadataUpdated",
	"providers/cloud.storage/eventTypes/object.change":         "google.cloud.storage.object.v1.finalized",
	"providers/cloud.firestore/eventTypes/document.write":      "google.cloud.firestore.document.v1.written",
	"providers/cloud.firestore/eventTypes/document.create":     "google.cloud.firestore.document.v1.created",
	"providers/cloud.firestore/eventTypes/document.update":     "google.cloud.firestore.document.v1.updated",
	"providers/cloud.firestore/eventTypes/document.delete":     "google.cloud.firestore.document.v1.deleted",
	"providers/firebase.auth/eventTypes/user.create":           "google.firebase.auth.user.v1.created",
	"providers/firebase.auth/eventTypes/user.delete":           "google.firebase.auth.user.v1.deleted",
	"providers/google.firebase.analytics/eventTypes/event.log": "google.firebase.analytics.log.v1.written",
	"providers/google.firebase.database/eventTypes/ref.create": "google.firebase.database.ref.v1.created",
	"providers/google.firebase.database/eventTypes/ref.write":  "google.firebase.database.ref.v1.written",
	"providers/google.firebase.database/eventTypes/ref.update": "google.firebase.database.ref.v1.updated",
	"providers/google.firebase.database/eventTypes/ref.delete": "google.firebase.database.ref.v1.deleted",
}

// typeServices infers the emitting service from a legacy type prefix when
// the resource does not name it.
var typeServices = []struct {
	prefix  string
	service string
}{
	{"providers/cloud.firestore/", serviceFirestore},
	{"providers/cloud.pubsub/", servicePubSub},
	{"providers/cloud.storage/", serviceStorage},
	{"providers/firebase.auth/", serviceFirebaseAuth},
	{"providers/google.firebase.analytics/", serviceFirebase},
	{"providers/google.firebase.database/", serviceFirebaseDB},
}

const (
	servicePubSub       = "pubsub.googleapis.com"
	serviceStorage      = "storage.googleapis.com"
	serviceFirestore    = "firestore.googleapis.com"
	serviceFirebase     = "firebase.googleapis.com"
	serviceFirebaseAuth = "firebaseauth.googleapis.com"
	serviceFirebaseDB   = "firebasedatabase.googleapis.com"
)

// resourcePatterns split a resource name into the source suffix and subject.
var resourcePatterns = map[string]*regexp.Regexp{
	serviceFirebase:   regexp.MustCompile(`^(projects/[^/]+)/(events/[^/]+)$`),
	serviceFirebaseDB: regexp.MustCompile(`^projects/_/(instances/[^/]+)/(refs/.+)$`),
	serviceFirestore:  regexp.MustCompile(`^(projects/[^/]+/databases/\(default\))/(documents/.+)$`),
	serviceStorage:    regexp.MustCompile(`^(projects/[^/]+/buckets/[^/]+)/(objects/.+)$`),
}

var pubsubTopicPattern = regexp.MustCompile(`projects/[^/?]+/topics/[^/?]+`)

type legacyEnvelope struct {
	Context *legacyContext  `json:"context"`
	Data    json.RawMessage `json:"data"`

	legacyContext

	Subscription string             `json:"subscription"`
	Message      *pubsubPushMessage `json:"message"`
}

type legacyContext struct {
	EventID   string          `json:"eventId"`
	Timestamp string          `json:"timestamp"`
	EventType string          `json:"eventType"`
	Domain    string          `json:"domain"`
	Resource  json.RawMessage `json:"resource"`
}

type pubsubPushMessage struct {
	Data        *string           `json:"data"`
	MessageID   string            `json:"messageId"`
	PublishTime string            `json:"publishTime"`
	Attributes  map[string]string `json:"attributes"`
}

func (LegacyDecoder) Decode(r *http.Request) (*event.Event, error) {
	if !isJSON(r.Header.Get("Content-Type")) || r.Body == nil {
		return nil, nil
	}

	var env legacyEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		return nil, nil
	}

	if env.Context == nil && env.Subscription != "" && env.Message != nil &&
		env.Message.Data != nil && env.Message.MessageID != "" {
		env = fromPubSubPush(env.Message, r.URL.Path)
	}

	ctx := env.legacyContext
	if env.Context != nil {
		ctx = *env.Context
	}
	return convertLegacy(ctx, env.Data)
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || (strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json") && mt != "application/cloudevents+json")
}

// fromPubSubPush rewrites a raw Pub/Sub push payload into the legacy envelope.
// The topic is taken from the request path when present.
func fromPubSubPush(msg *pubsubPushMessage, path string) legacyEnvelope {
	topic := pubsubTopicPattern.FindString(path)
	if topic == "" {
		topic = "UNKNOWN_PUBSUB_TOPIC"
	}
	ts := msg.PublishTime
	if ts == "" {
		ts = time.Now().UTC().Format(time.RFC3339Nano)
	}
	resource, _ := json.Marshal(map[string]string{
		"service": servicePubSub,
		"type":    "type.googleapis.com/google.pubsub.v1.PubsubMessage",
		"name":    topic,
	})
	data, _ := json.Marshal(map[string]any{
		"@type":      "type.googleapis.com/google.pubsub.v1.PubsubMessage",
		"data":       *msg.Data,
		"attributes": msg.Attributes,
	})
	return legacyEnvelope{
		Context: &legacyContext{
			EventID:   msg.MessageID,
			Timestamp: ts,
			EventType: "google.pubsub.topic.publish",
			Resource:  resource,
		},
		Data: data,
	}
}

// convertLegacy returns (nil, nil) when the envelope is incomplete or of an
// unknown type so the chain can report the request as unrecognized.
func convertLegacy(ctx legacyContext, data json.RawMessage) (*event.Event, error) {
	service, resource := parseResource(ctx.Resource)
	if service == "" {
		service = serviceForType(ctx.EventType)
	}
	if ctx.EventID == "" || ctx.Timestamp == "" || ctx.EventType == "" || service == "" || resource == "" {
		return nil, nil
	}

	ceType, ok := legacyTypes[ctx.EventType]
	if !ok {
		return nil, nil
	}
	source, subject, ok := convertSource(service, resource, ctx.Domain)
	if !ok {
		return nil, nil
	}

	payload, dataSubject, err := convertData(service, ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if subject == "" {
		subject = dataSubject
	}

	e := event.New(event.CloudEventsVersionV1)
	e.SetID(ctx.EventID)
	e.SetSource(source)
	e.SetType(ceType)
	if subject != "" {
		e.SetSubject(subject)
	}
	if t, err := time.Parse(time.RFC3339Nano, ctx.Timestamp); err == nil {
		e.SetTime(t)
	}
	if payload != nil {
		if err := e.SetData(event.ApplicationJSON, payload); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
		}
	}
	return &e, nil
}

func parseResource(raw json.RawMessage) (service, name string) {
	if len(raw) == 0 {
		return "", ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return "", s
	}
	var obj struct {
		Service string `json:"service"`
		Name    string `json:"name"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Service, obj.Name
	}
	return "", ""
}

func serviceForType(t string) string {
	for _, ts := range typeServices {
		if strings.HasPrefix(t, ts.prefix) {
			return ts.service
		}
	}
	return ""
}

func convertSource(service, resource, domain string) (source, subject string, ok bool) {
	re, known := resourcePatterns[service]
	if !known {
		return "//" + service + "/" + resource, "", true
	}
	m := re.FindStringSubmatch(resource)
	if m == nil {
		return "", "", false
	}
	if service == serviceFirebaseDB {
		location := "us-central1"
		if domain != "" && domain != "firebaseio.com" {
			location, _, _ = strings.Cut(domain, ".")
		}
		return "//" + service + "/projects/_/locations/" + location + "/" + m[1], m[2], true
	}
	return "//" + service + "/" + m[1], m[2], true
}

func convertData(service string, ctx legacyContext, data json.RawMessage) (any, string, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, "", nil
	}
	switch service {
	case servicePubSub:
		var msg map[string]any
		if err := json.Unmarshal(data, &msg); err != nil {
			return nil, "", err
		}
		msg["messageId"] = ctx.EventID
		msg["publishTime"] = ctx.Timestamp
		return map[string]any{"message": msg}, "", nil
	case serviceFirebaseAuth:
		var user map[string]any
		if err := json.Unmarshal(data, &user); err != nil {
			return nil, "", err
		}
		if meta, ok := user["metadata"].(map[string]any); ok {
			renameKey(meta, "createdAt", "createTime")
			renameKey(meta, "lastSignedInAt", "lastSignInTime")
		}
		subject := ""
		if uid, ok := user["uid"].(string); ok && uid != "" {
			subject = "users/" + uid
		}
		return user, subject, nil
	}
	return data, "", nil
}

func renameKey(m map[string]any, from, to string) {
	if v, ok := m[from]; ok {
		m[to] = v
		delete(m, from)
	}
}
