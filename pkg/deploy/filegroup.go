// Package deploy implements the bot deployment procedure: rsync transfers
// per file group, the remote install step over ssh, and optional EC2
// instance lifecycle management around them.
package deploy

import (
	"errors"
	"fmt"
)

// FileGroup identifies a named bundle of files transferred together.
type FileGroup string

const (
	GroupBot    FileGroup = "bot"
	GroupModel  FileGroup = "model"
	GroupConfig FileGroup = "config"
)

// String returns the string representation of the file group.
func (g FileGroup) String() string {
	return string(g)
}

// Description returns a description of what the group transfers.
func (g FileGroup) Description() string {
	switch g {
	case GroupBot:
		return "Compiled bot binary for the target architecture"
	case GroupModel:
		return "Model artifact"
	case GroupConfig:
		return "Config files and the crontab"
	default:
		return ""
	}
}

// AllFileGroups returns every known file group in transfer order.
func AllFileGroups() []FileGroup {
	return []FileGroup{GroupBot, GroupModel, GroupConfig}
}

// ErrNoFileGroups is returned when a deployment is requested with an empty
// file-group selection.
var ErrNoFileGroups = errors.New("no file groups selected (expected at least one of: bot, model, config)")

// ParseFileGroups validates raw group names from the CLI. Duplicates are
// collapsed; an empty selection is an invalid invocation.
func ParseFileGroups(names []string) ([]FileGroup, error) {
	if len(names) == 0 {
		return nil, ErrNoFileGroups
	}

	seen := make(map[FileGroup]bool)
	groups := make([]FileGroup, 0, len(names))
	for _, name := range names {
		g := FileGroup(name)
		switch g {
		case GroupBot, GroupModel, GroupConfig:
		default:
			return nil, fmt.Errorf("unknown file group %q (valid: bot, model, config)", name)
		}
		if seen[g] {
			continue
		}
		seen[g] = true
		groups = append(groups, g)
	}
	return groups, nil
}

// containsGroup reports whether g is in groups.
func containsGroup(groups []FileGroup, g FileGroup) bool {
	for _, have := range groups {
		if have == g {
			return true
		}
	}
	return false
}
