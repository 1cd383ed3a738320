package diag

import (
	"fmt"
	"time"
)

// Level is the severity of a log entry.
type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
	LevelTrace
)

// String returns the display name of the level.
func (l Level) String() string {
	switch l {
	case LevelNone:
		return "NONE"
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// Component names the subsystem that produced an entry.
type Component string

const (
	ComponentTextureCache Component = "TextureCache"
	ComponentVideoCache   Component = "VideoCache"
	ComponentAssetManager Component = "AssetManager"
	ComponentWindowSet    Component = "WindowSet"
	ComponentSound        Component = "Sound"
	ComponentKeybind      Component = "Keybind"
	ComponentInput        Component = "Input"
	ComponentConfig       Component = "Config"
	ComponentLauncher     Component = "Launcher"
	ComponentOverlay      Component = "Overlay"
	ComponentRenderer     Component = "Renderer"
	ComponentSystem       Component = "System"
)

// Entry is a single log record.
type Entry struct {
	Timestamp time.Time
	Component Component
	Level     Level
	Message   string
	Fields    map[string]interface{}
}

// Format renders the entry as a single line.
func (e *Entry) Format() string {
	ts := e.Timestamp.Format("15:04:05.000")
	return fmt.Sprintf("[%s] [%s] %s: %s", ts, e.Component, e.Level, e.Message)
}
