package cloudevent_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudevents/sdk-go/v2/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/fnhost/pkg/cloudevent"
)

func newRequest(contentType, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestChain_Structured(t *testing.T) {
	t.Parallel()
	req := newRequest("application/cloudevents+json",
		`{"specversion":"1.0","id":"abc","source":"/orders","type":"order.created","datacontenttype":"application/json","data":{"a":1}}`)

	e, err := cloudevent.DefaultChain().Decode(req)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "abc", e.ID())
	assert.Equal(t, "/orders", e.Source())
	assert.Equal(t, "order.created", e.Type())
	assert.JSONEq(t, `{"a":1}`, string(e.Data()))
}

func TestChain_Binary(t *testing.T) {
	t.Parallel()
	req := newRequest("application/json", `{"hello":"world"}`)
	req.Header.Set("ce-specversion", "1.0")
	req.Header.Set("ce-id", "b-1")
	req.Header.Set("ce-source", "/binary")
	req.Header.Set("ce-type", "binary.event")

	e, err := cloudevent.DefaultChain().Decode(req)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "b-1", e.ID())
	assert.Equal(t, "binary.event", e.Type())
	assert.JSONEq(t, `{"hello":"world"}`, string(e.Data()))
}

func TestChain_LegacyStorage(t *testing.T) {
	t.Parallel()
	req := newRequest("application/json", `{
		"eventId": "1147091835525187",
		"timestamp": "2020-09-29T11:32:00.000Z",
		"eventType": "google.storage.object.finalize",
		"resource": {
			"service": "storage.googleapis.com",
			"name": "projects/_/buckets/some-bucket/objects/folder/Test.cs",
			"type": "storage#object"
		},
		"data": {"bucket": "some-bucket", "name": "folder/Test.cs"}
	}`)

	e, err := cloudevent.DefaultChain().Decode(req)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "1147091835525187", e.ID())
	assert.Equal(t, "google.cloud.storage.object.v1.finalized", e.Type())
	assert.Equal(t, "//storage.googleapis.com/projects/_/buckets/some-bucket", e.Source())
	assert.Equal(t, "objects/folder/Test.cs", e.Subject())
	assert.Equal(t, event.ApplicationJSON, e.DataContentType())
	assert.JSONEq(t, `{"bucket":"some-bucket","name":"folder/Test.cs"}`, string(e.Data()))
}

func TestChain_LegacyPubSubContext(t *testing.T) {
	t.Parallel()
	req := newRequest("application/json", `{
		"context": {
			"eventId": "1215011316659232",
			"timestamp": "2020-05-18T12:13:19Z",
			"eventType": "google.pubsub.topic.publish",
			"resource": {
				"service": "pubsub.googleapis.com",
				"name": "projects/sample-project/topics/gcf-test",
				"type": "type.googleapis.com/google.pubsub.v1.PubsubMessage"
			}
		},
		"data": {"@type": "type.googleapis.com/google.pubsub.v1.PubsubMessage", "data": "VGVzdA=="}
	}`)

	e, err := cloudevent.DefaultChain().Decode(req)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "google.cloud.pubsub.topic.v1.messagePublished", e.Type())
	assert.Equal(t, "//pubsub.googleapis.com/projects/sample-project/topics/gcf-test", e.Source())
	assert.JSONEq(t, `{"message":{
		"@type":"type.googleapis.com/google.pubsub.v1.PubsubMessage",
		"data":"VGVzdA==",
		"messageId":"1215011316659232",
		"publishTime":"2020-05-18T12:13:19Z"
	}}`, string(e.Data()))
}

func TestChain_RawPubSubPush(t *testing.T) {
	t.Parallel()
	req := httptest.NewRequest(http.MethodPost, "/projects/p1/topics/t1?pubsub_trigger=true", strings.NewReader(`{
		"subscription": "projects/p1/subscriptions/s1",
		"message": {"data": "SGk=", "messageId": "42", "publishTime": "2021-01-01T00:00:00Z", "attributes": {"k": "v"}}
	}`))
	req.Header.Set("Content-Type", "application/json")

	e, err := cloudevent.DefaultChain().Decode(req)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "42", e.ID())
	assert.Equal(t, "//pubsub.googleapis.com/projects/p1/topics/t1", e.Source())
	assert.Equal(t, "google.cloud.pubsub.topic.v1.messagePublished", e.Type())
}

func TestChain_LegacyFirebaseAuth(t *testing.T) {
	t.Parallel()
	req := newRequest("application/json", `{
		"eventId": "aaa",
		"timestamp": "2020-09-29T11:32:00.000Z",
		"eventType": "providers/firebase.auth/eventTypes/user.create",
		"resource": "projects/my-project-id",
		"data": {"uid": "U1", "metadata": {"createdAt": "2020-05-26T10:42:27.088Z"}}
	}`)

	e, err := cloudevent.DefaultChain().Decode(req)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "google.firebase.auth.user.v1.created", e.Type())
	assert.Equal(t, "//firebaseauth.googleapis.com/projects/my-project-id", e.Source())
	assert.Equal(t, "users/U1", e.Subject())
	assert.JSONEq(t, `{"uid":"U1","metadata":{"createTime":"2020-05-26T10:42:27.088Z"}}`, string(e.Data()))
}

func TestChain_Unrecognized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"plain text", "text/plain", "hello"},
		{"no content type", "", `{"eventId":"1"}`},
		{"json without envelope", "application/json", `{"foo":"bar"}`},
		{"unknown legacy type", "application/json", `{"eventId":"1","timestamp":"2020-01-01T00:00:00Z","eventType":"custom.type","resource":{"service":"x.googleapis.com","name":"r"}}`},
		{"invalid json", "application/json", `{`},
		{"empty body", "application/json", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e, err := cloudevent.DefaultChain().Decode(newRequest(tt.contentType, tt.body))
			assert.Nil(t, e)
			assert.ErrorIs(t, err, cloudevent.ErrUnknownEventType)
		})
	}
}

func TestChain_MalformedStructured(t *testing.T) {
	t.Parallel()
	e, err := cloudevent.DefaultChain().Decode(newRequest("application/cloudevents+json", `{not json`))
	assert.Nil(t, e)
	require.Error(t, err)
	assert.ErrorIs(t, err, cloudevent.ErrMalformedEvent)
}

func TestChain_Order(t *testing.T) {
	t.Parallel()
	var calls []string
	first := cloudevent.DecoderFunc(func(r *http.Request) (*event.Event, error) {
		calls = append(calls, "first")
		return nil, nil
	})
	second := cloudevent.DecoderFunc(func(r *http.Request) (*event.Event, error) {
		calls = append(calls, "second")
		e := event.New()
		e.SetID("x")
		return &e, nil
	})
	third := cloudevent.DecoderFunc(func(r *http.Request) (*event.Event, error) {
		calls = append(calls, "third")
		return nil, nil
	})

	e, err := cloudevent.Chain{first, second, third}.Decode(newRequest("text/plain", "x"))
	require.NoError(t, err)
	assert.Equal(t, "x", e.ID())
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestChain_LeavesRequestUntouched(t *testing.T) {
	t.Parallel()
	var seen []*http.Request
	record := cloudevent.DecoderFunc(func(r *http.Request) (*event.Event, error) {
		seen = append(seen, r)
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "payload", string(b), "every decoder sees the full body")
		return nil, nil
	})

	req := newRequest("text/plain", "payload")
	body := req.Body
	_, err := cloudevent.Chain{record, record}.Decode(req)
	assert.ErrorIs(t, err, cloudevent.ErrUnknownEventType)

	assert.True(t, body == req.Body, "inbound body field is not replaced")
	require.Len(t, seen, 2)
	assert.NotSame(t, req, seen[0])
	assert.NotSame(t, seen[0], seen[1])
}
