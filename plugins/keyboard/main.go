// Package main provides a keyboard plugin for macOS.
// It presses keys via AppleScript System Events.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action  string          `json:"action"`
	Gesture string          `json:"gesture"`
	Params  json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// KeyParams defines parameters for the key action.
type KeyParams struct {
	Key       string   `json:"key"`
	Modifiers []string `json:"modifiers"` // cmd, alt, ctrl, shift
}

// modifierMap maps user-friendly modifier names to AppleScript equivalents.
var modifierMap = map[string]string{
	"command": "command down",
	"cmd":     "command down",
	"option":  "option down",
	"alt":     "option down",
	"control": "control down",
	"ctrl":    "control down",
	"shift":   "shift down",
}

// keyCodes holds macOS virtual key codes for keys that have no character.
var keyCodes = map[string]int{
	"left":   123,
	"right":  124,
	"down":   125,
	"up":     126,
	"esc":    53,
	"escape": 53,
	"tab":    48,
	"return": 36,
	"enter":  36,
	"space":  49,
	"f5":     96,
}

func main() {
	resp := handle(os.Stdin, runAppleScript)
	json.NewEncoder(os.Stdout).Encode(resp)
}

// handle decodes one request from r and performs it with run.
func handle(r io.Reader, run func(script string) error) Response {
	var req Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return Response{Error: fmt.Sprintf("failed to decode request: %v", err)}
	}

	if req.Action != "key" {
		return Response{Error: fmt.Sprintf("unknown action: %s", req.Action)}
	}

	script, err := keyScript(req.Params)
	if err != nil {
		return Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)}
	}
	if err := run(script); err != nil {
		return Response{Error: fmt.Sprintf("action %s failed: %v", req.Action, err)}
	}

	return Response{Success: true}
}

// keyScript parses params and builds the AppleScript that presses the key.
func keyScript(params json.RawMessage) (string, error) {
	var p KeyParams
	if err := json.Unmarshal(params, &p); err != nil {
		return "", fmt.Errorf("failed to parse params: %w", err)
	}

	if p.Key == "" {
		return "", errors.New("key is required")
	}

	return buildKeyScript(p.Key, p.Modifiers)
}

// buildKeyScript generates an AppleScript for the given key and modifiers.
// Named keys are sent as key codes. Any other key must be a single printable
// character and is sent as a keystroke.
func buildKeyScript(key string, modifiers []string) (string, error) {
	var press string
	if code, ok := keyCodes[strings.ToLower(key)]; ok {
		press = fmt.Sprintf("key code %d", code)
	} else {
		r, size := utf8.DecodeRuneInString(key)
		if size != len(key) || r == utf8.RuneError || !unicode.IsPrint(r) {
			return "", fmt.Errorf("unsupported key %q", key)
		}
		press = fmt.Sprintf(`keystroke "%s"`, quoteAppleScript(key))
	}

	var appleModifiers []string
	for _, mod := range modifiers {
		if appleMod, ok := modifierMap[strings.ToLower(mod)]; ok {
			appleModifiers = append(appleModifiers, appleMod)
		}
	}

	if len(appleModifiers) == 0 {
		return fmt.Sprintf(`tell application "System Events" to %s`, press), nil
	}

	return fmt.Sprintf(`tell application "System Events" to %s using {%s}`, press, strings.Join(appleModifiers, ", ")), nil
}

// quoteAppleScript escapes s for use inside an AppleScript string literal.
func quoteAppleScript(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
