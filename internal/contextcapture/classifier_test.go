package contextcapture

import (
	"os"
	"path/filepath"
	"testing"

	"coldmic/internal/domain"
)

func TestClassifyByProcessName(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier("")
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	tag, tone := c.Classify("slack", "general channel")
	if tag != domain.AppContextChat || tone != domain.ToneCasual {
		t.Fatalf("expected chat/casual, got %s/%s", tag, tone)
	}
}

func TestClassifyBrowserRefinedByURL(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier("")
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	tag, tone := c.Classify("firefox", "Inbox (3) - Gmail")
	if tag != domain.AppContextEmail || tone != domain.ToneFormal {
		t.Fatalf("expected email/formal from gmail title, got %s/%s", tag, tone)
	}
}

func TestClassifyBrowserFallsBackWithoutURLMatch(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier("")
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	tag, _ := c.Classify("chrome", "My Homepage")
	if tag != domain.AppContextBrowser {
		t.Fatalf("expected browser fallback, got %s", tag)
	}
}

func TestClassifyNoProcessMatchStillChecksURL(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier("")
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	tag, tone := c.Classify("unknownapp", "Issue #42 - github.com/example/repo")
	if tag != domain.AppContextCode || tone != domain.ToneTechnical {
		t.Fatalf("expected code/technical from github title, got %s/%s", tag, tone)
	}
}

func TestClassifyDefaultsToGeneralFormal(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier("")
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	tag, tone := c.Classify("unknownapp", "nothing recognizable here")
	if tag != domain.AppContextGeneral || tone != domain.ToneFormal {
		t.Fatalf("expected general/formal default, got %s/%s", tag, tone)
	}
}

func TestNewClassifierMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	c, err := NewClassifier(filepath.Join(t.TempDir(), "does-not-exist.rules"))
	if err != nil {
		t.Fatalf("expected missing file to be tolerated, got: %v", err)
	}
	tag, _ := c.Classify("slack", "")
	if tag != domain.AppContextChat {
		t.Fatalf("expected default rules to still apply")
	}
}

func TestNewClassifierLoadsCustomRules(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "context.rules")
	contents := "# comment\nprocess myapp code technical\nurl example.internal document formal\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}

	c, err := NewClassifier(path)
	if err != nil {
		t.Fatalf("NewClassifier failed: %v", err)
	}

	tag, tone := c.Classify("myapp", "")
	if tag != domain.AppContextCode || tone != domain.ToneTechnical {
		t.Fatalf("expected custom process rule to apply, got %s/%s", tag, tone)
	}

	tag, tone = c.Classify("unknown", "visit example.internal now")
	if tag != domain.AppContextDocument || tone != domain.ToneFormal {
		t.Fatalf("expected custom url rule to apply, got %s/%s", tag, tone)
	}
}

func TestNewClassifierRejectsMalformedLine(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "context.rules")
	if err := os.WriteFile(path, []byte("process onlythreefields\n"), 0o644); err != nil {
		t.Fatalf("failed to write rules file: %v", err)
	}

	if _, err := NewClassifier(path); err == nil {
		t.Fatalf("expected error for malformed rule line")
	}
}
