package scene

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const builtInGroup = "Built-in Scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`                 // Name accepted by Resolve
	Name        string `json:"name"`               // Scene name
	DisplayName string `json:"displayName"`        // UI display name
	Description string `json:"description"`        // Optional description
	Group       string `json:"group"`              // Grouping category
	Type        string `json:"type"`               // "builtin" or "file"
	FilePath    string `json:"filePath,omitempty"` // Path to the scene file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

type builtIn struct {
	info  SceneInfo
	build func() *Scene
}

var builtIns = []builtIn{
	{
		info: SceneInfo{
			ID:          "default",
			Name:        "Default Scene",
			DisplayName: "Default Scene",
			Description: "White unit sphere lit from above on a blue background",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		build: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "spheregrid",
			Name:        "Sphere Grid",
			DisplayName: "Sphere Grid",
			Description: "5x5 grid of rainbow-colored spheres",
			Group:       builtInGroup,
			Type:        "builtin",
		},
		build: func() *Scene { return NewSphereGridScene(5) },
	},
}

var sceneExtensions = map[string]bool{
	".scene": true,
	".txt":   true,
	".yaml":  true,
	".yml":   true,
	".toml":  true,
	".json":  true,
}

// IsSceneFile reports whether filename has a scene file extension
func IsSceneFile(filename string) bool {
	return sceneExtensions[strings.ToLower(filepath.Ext(filename))]
}

// BuiltInScenes returns metadata for the scenes compiled into the binary
func BuiltInScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(builtIns))
	for _, b := range builtIns {
		scenes = append(scenes, b.info)
	}
	return scenes
}

// ListScenes returns the built-in scenes followed by every scene file found
// directly inside dir, sorted by display name. An empty or missing dir
// yields only the built-ins.
func ListScenes(dir string) ([]SceneInfo, error) {
	scenes := BuiltInScenes()

	files, err := listSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	return append(scenes, files...), nil
}

func listSceneFiles(dir string) ([]SceneInfo, error) {
	if dir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsSceneFile(entry.Name()) {
			continue
		}
		info, err := ParseSceneMetadata(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParseSceneMetadata extracts metadata from the leading comment block of a
// scene file. Recognised lines are "# Scene:", "# Description:" and
// "# Group:"; the filename supplies fallbacks.
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	info := SceneInfo{
		ID:       nameWithoutExt,
		Name:     titleCase(nameWithoutExt),
		Group:    "Scene Files",
		Type:     "file",
		FilePath: filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return info, fmt.Errorf("failed to read scene metadata: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			break
		}

		content := strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if value, ok := strings.CutPrefix(content, "Scene:"); ok {
			info.Name = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(content, "Description:"); ok {
			info.Description = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(content, "Group:"); ok {
			info.Group = strings.TrimSpace(value)
		}
	}
	info.DisplayName = info.Name

	return info, scanner.Err()
}

// GroupScenes groups scenes by their Group field, built-ins first and the
// remaining groups alphabetically
func GroupScenes(scenes []SceneInfo) ScenesResponse {
	groupMap := make(map[string][]SceneInfo)
	for _, s := range scenes {
		groupMap[s.Group] = append(groupMap[s.Group], s)
	}

	var groupNames []string
	for name := range groupMap {
		if name != builtInGroup {
			groupNames = append(groupNames, name)
		}
	}
	sort.Strings(groupNames)

	var response ScenesResponse
	if group, ok := groupMap[builtInGroup]; ok {
		response.Groups = append(response.Groups, SceneGroup{Name: builtInGroup, Scenes: group})
	}
	for _, name := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: name, Scenes: groupMap[name]})
	}
	return response
}

// ErrUnknownScene is returned when a name matches no built-in or discovered scene
var ErrUnknownScene = errors.New("unknown scene")

// Lookup loads a scene by built-in name or by the name of a scene file
// discovered in dir. Paths are not accepted.
func Lookup(name, dir string) (*Scene, error) {
	for _, b := range builtIns {
		if b.info.ID == name {
			return b.build(), nil
		}
	}

	files, err := listSceneFiles(dir)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if f.ID == name {
			return LoadFile(f.FilePath)
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownScene, name)
}

// Resolve loads name as a scene. A name that looks like a path (it has a
// directory separator or a scene file extension) is loaded from disk first;
// otherwise built-in and discovered names win and the path is the fallback.
func Resolve(name, dir string) (*Scene, error) {
	if looksLikePath(name) {
		if _, err := os.Stat(name); err == nil {
			return LoadFile(name)
		}
	}

	s, err := Lookup(name, dir)
	if !errors.Is(err, ErrUnknownScene) {
		return s, err
	}

	if _, statErr := os.Stat(name); statErr != nil {
		return nil, err
	}
	return LoadFile(name)
}

func looksLikePath(name string) bool {
	return strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) || IsSceneFile(name)
}

// titleCase converts a filename-style string to title case
// e.g., "two-spheres" -> "Two Spheres"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
