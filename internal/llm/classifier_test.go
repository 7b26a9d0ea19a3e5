package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/lossrun/internal/cache"
	"github.com/ppiankov/lossrun/internal/model"
)

// fakeProvider replays canned replies in call order. When err is set,
// every call fails.
type fakeProvider struct {
	replies []string
	err     error
	calls   int
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) IsAvailable(ctx context.Context) bool { return p.err == nil }

func (p *fakeProvider) Complete(ctx context.Context, req CompleteRequest) (*CompleteResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	reply := p.replies[len(p.replies)-1]
	if p.calls <= len(p.replies) {
		reply = p.replies[p.calls-1]
	}
	return &CompleteResponse{Text: reply, Model: "fake-model"}, nil
}

func TestClassifyLOBsFromOracle(t *testing.T) {
	provider := &fakeProvider{replies: []string{`Here you go: {"lobs": ["WC", "AUTO", "WC", "MARINE"]}`}}
	c := NewClassifier(provider, nil, nil, 0)

	got := c.ClassifyLOBs(context.Background(), "irrelevant")
	want := []model.LOB{model.LOBWorkersComp, model.LOBAuto}
	if len(got) != len(want) {
		t.Fatalf("ClassifyLOBs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ClassifyLOBs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestClassifyLOBsKeywordFallback(t *testing.T) {
	provider := &fakeProvider{err: errors.New("boom")}
	c := NewClassifier(provider, nil, nil, 0)

	text := "General Liability summary. Premises incident. Workers Comp indemnity and lost time."
	got := c.ClassifyLOBs(context.Background(), text)

	want := []model.LOB{model.LOBGeneralLiability, model.LOBWorkersComp}
	if len(got) != len(want) {
		t.Fatalf("ClassifyLOBs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ClassifyLOBs[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestClassifyLOBsNeverEmpty(t *testing.T) {
	provider := &fakeProvider{err: errors.New("boom")}
	c := NewClassifier(provider, nil, nil, 0)

	got := c.ClassifyLOBs(context.Background(), "nothing recognizable here")
	if len(got) != 1 || got[0] != model.LOBAuto {
		t.Fatalf("ClassifyLOBs = %v, want [AUTO]", got)
	}
}

func TestClassifyLOBsNilProvider(t *testing.T) {
	c := NewClassifier(nil, nil, nil, 0)

	got := c.ClassifyLOBs(context.Background(), "Vehicle collision, VIN 1HGCM82633A004352, rental car provided")
	if len(got) != 1 || got[0] != model.LOBAuto {
		t.Fatalf("ClassifyLOBs = %v, want [AUTO]", got)
	}
}

func TestClassifyLOBSingle(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		text     string
		want     model.LOB
	}{
		{
			name:     "oracle answer accepted",
			provider: &fakeProvider{replies: []string{`{"lob": "general liability"}`}},
			text:     "whatever",
			want:     model.LOBGeneralLiability,
		},
		{
			name:     "out of set answer falls back",
			provider: &fakeProvider{replies: []string{`{"lob": "PROPERTY"}`}},
			text:     "employee injury, indemnity, lost time",
			want:     model.LOBWorkersComp,
		},
		{
			name:     "oracle failure scores keywords",
			provider: &fakeProvider{err: errors.New("timeout")},
			text:     "collision damage, tow and rental, subrogation pending",
			want:     model.LOBAuto,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(tt.provider, nil, nil, 0)
			if got := c.ClassifyLOB(context.Background(), tt.text); got != tt.want {
				t.Errorf("ClassifyLOB = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifierScoreTieBreaksInOrder(t *testing.T) {
	// One hit each for GL and WC; enumeration order prefers GL.
	got := scoreLOB("premises incident with indemnity payment")
	if got != model.LOBGeneralLiability {
		t.Errorf("scoreLOB = %q, want %q", got, model.LOBGeneralLiability)
	}
}

func TestClassifierUsesCache(t *testing.T) {
	provider := &fakeProvider{replies: []string{`{"lobs": ["WC"]}`}}
	c := NewClassifier(provider, cache.NewMemoryCache(time.Minute, time.Minute), nil, time.Minute)

	ctx := context.Background()
	first := c.ClassifyLOBs(ctx, "same document text")
	second := c.ClassifyLOBs(ctx, "same document text")

	if provider.calls != 1 {
		t.Fatalf("provider called %d times, want 1", provider.calls)
	}
	if len(first) != 1 || len(second) != 1 || first[0] != second[0] {
		t.Fatalf("cached classification diverged: %v vs %v", first, second)
	}
}
