// Package contextcapture derives a coarse application-context tag and
// suggested tone from a foreground window's process name and title.
package contextcapture

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"coldmic/internal/domain"
)

type rule struct {
	token domain.AppContextTag
	tone  domain.SuggestedTone
}

// Classifier maps a foreground window snapshot to an app-context tag and
// suggested tone using a process-name table and a URL-fragment table.
// Loaded once at startup from an optional file, falling back to built-in
// defaults when the file is absent.
type Classifier struct {
	byProcess map[string]rule
	byURL     map[string]rule
}

// NewClassifier loads classification rules from path. A missing file is
// not an error: the built-in defaults are used instead, exactly as the
// rules engine this is adapted from tolerates a missing rules file.
func NewClassifier(path string) (*Classifier, error) {
	c := &Classifier{
		byProcess: defaultProcessRules(),
		byURL:     defaultURLRules(),
	}

	if strings.TrimSpace(path) == "" {
		return c, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to open context rules file %q: %w", path, err)
	}
	defer file.Close()

	if err := c.load(file); err != nil {
		return nil, fmt.Errorf("failed to parse context rules file %q: %w", path, err)
	}
	return c, nil
}

func (c *Classifier) load(f *os.File) error {
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 4 {
			return fmt.Errorf("line %d: expected \"process|url <token> <tag> <tone>\"", lineNo)
		}

		kind, token, tag, tone := fields[0], fields[1], fields[2], fields[3]
		r := rule{token: domain.AppContextTag(tag), tone: domain.SuggestedTone(tone)}

		switch kind {
		case "process":
			c.byProcess[strings.ToLower(token)] = r
		case "url":
			c.byURL[strings.ToLower(token)] = r
		default:
			return fmt.Errorf("line %d: unknown rule kind %q", lineNo, kind)
		}
	}
	return scanner.Err()
}

// Classify derives a (tag, tone) pair per the algorithm: look up the
// process name; if it resolves to "browser", or there was no match at
// all, refine or derive against the URL-fragment table using the window
// title; otherwise return the process match. Falls back to
// (general, formal) when nothing matches.
func (c *Classifier) Classify(processName, windowTitle string) (domain.AppContextTag, domain.SuggestedTone) {
	lowerProcess := strings.ToLower(processName)
	lowerTitle := strings.ToLower(windowTitle)

	match, hasMatch := c.byProcess[lowerProcess]
	if hasMatch && match.token != AppContextBrowser {
		return match.token, match.tone
	}

	for fragment, r := range c.byURL {
		if strings.Contains(lowerTitle, fragment) {
			return r.token, r.tone
		}
	}

	if hasMatch {
		return match.token, match.tone
	}
	return domain.AppContextGeneral, domain.ToneFormal
}

// AppContextBrowser is a local alias to keep Classify readable; it is the
// "browser" tag from the process table that triggers URL refinement.
const AppContextBrowser = domain.AppContextBrowser

func defaultProcessRules() map[string]rule {
	return map[string]rule{
		"outlook":       {domain.AppContextEmail, domain.ToneFormal},
		"thunderbird":   {domain.AppContextEmail, domain.ToneFormal},
		"mail":          {domain.AppContextEmail, domain.ToneFormal},
		"slack":         {domain.AppContextChat, domain.ToneCasual},
		"discord":       {domain.AppContextChat, domain.ToneCasual},
		"telegram":      {domain.AppContextChat, domain.ToneCasual},
		"signal":        {domain.AppContextChat, domain.ToneCasual},
		"code":          {domain.AppContextCode, domain.ToneTechnical},
		"code-insiders": {domain.AppContextCode, domain.ToneTechnical},
		"vim":           {domain.AppContextCode, domain.ToneTechnical},
		"nvim":          {domain.AppContextCode, domain.ToneTechnical},
		"jetbrains":     {domain.AppContextCode, domain.ToneTechnical},
		"terminal":      {domain.AppContextCode, domain.ToneTechnical},
		"gnome-terminal": {domain.AppContextCode, domain.ToneTechnical},
		"writer":        {domain.AppContextDocument, domain.ToneFormal},
		"word":          {domain.AppContextDocument, domain.ToneFormal},
		"libreoffice":   {domain.AppContextDocument, domain.ToneFormal},
		"firefox":       {domain.AppContextBrowser, domain.ToneFormal},
		"chrome":        {domain.AppContextBrowser, domain.ToneFormal},
		"chromium":      {domain.AppContextBrowser, domain.ToneFormal},
	}
}

func defaultURLRules() map[string]rule {
	return map[string]rule{
		"gmail":        {domain.AppContextEmail, domain.ToneFormal},
		"outlook.com":  {domain.AppContextEmail, domain.ToneFormal},
		"github":       {domain.AppContextCode, domain.ToneTechnical},
		"gitlab":       {domain.AppContextCode, domain.ToneTechnical},
		"stackoverflow": {domain.AppContextCode, domain.ToneTechnical},
		"slack.com":    {domain.AppContextChat, domain.ToneCasual},
		"discord.com":  {domain.AppContextChat, domain.ToneCasual},
		"docs.google":  {domain.AppContextDocument, domain.ToneFormal},
		"notion.so":    {domain.AppContextDocument, domain.ToneFormal},
	}
}
