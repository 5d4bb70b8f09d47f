package interpret_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/citytwin/interpret"
	"github.com/katalvlaran/citytwin/metrics"
	"github.com/katalvlaran/citytwin/policy"
)

// chatServer answers every chat-completions call with content and records
// the last request.
func chatServer(t *testing.T, status int, content string, last *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if last != nil {
			*last = map[string]any{}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(last))
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded"}}`))
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		}
		assert.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func clientFor(srv *httptest.Server) *interpret.LLMClient {
	return interpret.NewLLMClient(interpret.Config{
		BaseURL: srv.URL + "/v1/",
		APIKey:  "sk-test",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, nil)
}

func TestLLMClient_Interpret(t *testing.T) {
	var req map[string]any
	content := "```json\n" + `{"actions":[{"type":"close_road","target_tag":"downtown","description":"close"},` +
		`{"type":"adjust_capacity","target_id":"e_n_2_1_n_2_2","value":0,"description":"bus lane"}],"reasoning":"less traffic"}` + "\n```"
	srv := chatServer(t, http.StatusOK, content, &req)

	in, err := clientFor(srv).Interpret(context.Background(), "Close downtown and add a bus lane")
	require.NoError(t, err)
	assert.Equal(t, "less traffic", in.Reasoning)
	assert.False(t, in.Degraded)
	require.Len(t, in.Actions, 2)
	assert.Equal(t, policy.KindCloseRoad, in.Actions[0].Type)
	require.NotNil(t, in.Actions[1].Value)
	assert.Zero(t, *in.Actions[1].Value)

	assert.Equal(t, "test-model", req["model"])
	msgs, ok := req["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, map[string]any{"type": "json_object"}, req["response_format"])
}

func TestLLMClient_Errors(t *testing.T) {
	down := chatServer(t, http.StatusTooManyRequests, "", nil)
	_, err := clientFor(down).Interpret(context.Background(), "anything")
	require.ErrorIs(t, err, interpret.ErrUpstream)

	garbage := chatServer(t, http.StatusOK, "sure! I would close downtown.", nil)
	_, err = clientFor(garbage).Interpret(context.Background(), "anything")
	require.ErrorIs(t, err, interpret.ErrMalformedResponse)

	_, err = clientFor(garbage).Interpret(context.Background(), "   ")
	require.ErrorIs(t, err, interpret.ErrEmptyInput)

	unreachable := interpret.NewLLMClient(interpret.Config{BaseURL: "http://127.0.0.1:1", Model: "m"}, nil)
	_, err = unreachable.Interpret(context.Background(), "anything")
	require.ErrorIs(t, err, interpret.ErrUpstream)
}

func TestLLMClient_Recommend(t *testing.T) {
	var req map[string]any
	srv := chatServer(t, http.StatusOK, "  Add a bus lane on n_2_x.  ", &req)

	text, err := clientFor(srv).Recommend(context.Background(), metrics.Snapshot{CongestionIndex: 71.2, Emissions: 12})
	require.NoError(t, err)
	assert.Equal(t, "Add a bus lane on n_2_x.", text)

	msgs := req["messages"].([]any)
	require.Len(t, msgs, 1, "no system prompt for advice")
	assert.Contains(t, msgs[0].(map[string]any)["content"], "Congestion: 71.2")
	assert.NotContains(t, req, "response_format")
}

func TestMock(t *testing.T) {
	cases := []struct {
		text  string
		kind  policy.Kind
		tag   string
		value *float64
	}{
		{"Close all roads DOWNTOWN tonight", policy.KindCloseRoad, "downtown", nil},
		{"Lower the speed limit", policy.KindModifySpeed, policy.TagAll, policy.Float(30)},
		{"limit trucks", policy.KindModifySpeed, policy.TagAll, policy.Float(30)},
		{"close the highway", policy.KindAdjustCapacity, "downtown", policy.Float(0.5)},
		{"more bike lanes", policy.KindAdjustCapacity, "downtown", policy.Float(0.5)},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			in, err := interpret.Mock{}.Interpret(context.Background(), tc.text)
			require.NoError(t, err)
			require.Len(t, in.Actions, 1)
			a := in.Actions[0]
			assert.Equal(t, tc.kind, a.Type)
			assert.Equal(t, tc.tag, a.TargetTag)
			assert.Equal(t, tc.value, a.Value)
			assert.Equal(t, interpret.MockReasoning, in.Reasoning)

			_, err = policy.Decode(a)
			assert.NoError(t, err, "mock output is always decodable")
		})
	}

	text, err := interpret.Mock{}.Recommend(context.Background(), metrics.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, interpret.RecommendationFallback, text)
}

// failing is an InterpreterAdvisor that always fails with err.
type failing struct{ err error }

func (f failing) Interpret(context.Context, string) (interpret.Interpretation, error) {
	return interpret.Interpretation{}, f.err
}

func (f failing) Recommend(context.Context, metrics.Snapshot) (string, error) { return "", f.err }

func TestFallback(t *testing.T) {
	var buf bytes.Buffer
	fb := interpret.Fallback{
		Primary: failing{err: interpret.ErrUpstream},
		Backup:  interpret.Mock{},
		Logger:  log.New(&buf, "", 0),
	}

	in, err := fb.Interpret(context.Background(), "close downtown")
	require.NoError(t, err)
	assert.True(t, in.Degraded)
	assert.ErrorIs(t, in.Cause, interpret.ErrUpstream)
	assert.Equal(t, policy.KindCloseRoad, in.Actions[0].Type)
	assert.Contains(t, buf.String(), "primary failed")

	text, err := fb.Recommend(context.Background(), metrics.Snapshot{})
	require.NoError(t, err)
	assert.Equal(t, interpret.RecommendationFallback, text)

	_, err = fb.Interpret(context.Background(), "")
	require.ErrorIs(t, err, interpret.ErrEmptyInput, "caller errors are not masked")

	both := interpret.Fallback{Primary: failing{err: interpret.ErrUpstream}, Backup: failing{err: errors.New("backup down")}, Logger: log.New(&buf, "", 0)}
	_, err = both.Interpret(context.Background(), "x")
	require.ErrorIs(t, err, interpret.ErrUpstream)
	assert.True(t, strings.Contains(err.Error(), "backup down"))
}

func TestNew(t *testing.T) {
	_, isMock := interpret.New(interpret.DefaultConfig(), nil).(interpret.Mock)
	assert.True(t, isMock, "no provider configured")

	cfg := interpret.DefaultConfig()
	cfg.BaseURL = "http://localhost:11434/v1"
	_, isFallback := interpret.New(cfg, nil).(interpret.Fallback)
	assert.True(t, isFallback)
}
