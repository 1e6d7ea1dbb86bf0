package scene

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-raycaster/pkg/core"
	"github.com/df07/go-raycaster/pkg/loaders"
)

const minimalScene = `camera_position 0 0 5
camera_look 0 0 0
camera_fov 60
background 0.2 0.2 0.8
sphere 1  0 0 0  1 1 1
sphere 0.5  2 0 -1  1 0 0
light 0 10 0  1 1 1
resolution 32 16
`

func parse(t *testing.T, text string) *loaders.Document {
	t.Helper()
	doc, err := loaders.ParseText(strings.NewReader(text))
	require.NoError(t, err)
	return doc
}

func TestFromDocument(t *testing.T) {
	s, err := FromDocument(parse(t, minimalScene))
	require.NoError(t, err)

	assert.Equal(t, 32, s.Width)
	assert.Equal(t, 16, s.Height)
	assert.Equal(t, 32, s.Resolution())
	assert.Equal(t, core.NewVec3(0.2, 0.2, 0.8), s.Background)

	require.Len(t, s.Spheres, 2)
	assert.Equal(t, float32(0.5), s.Spheres[1].Radius)
	assert.Equal(t, core.NewVec3(2, 0, -1), s.Spheres[1].Center)
	assert.Equal(t, core.NewVec3(1, 0, 0), s.Spheres[1].Color)
	assert.Equal(t, 2, s.GetPrimitiveCount())

	require.Len(t, s.Lights, 1)
	assert.Equal(t, core.NewVec3(0, 10, 0), s.Lights[0].Position)

	require.NotNil(t, s.Camera)
	assert.Equal(t, core.NewVec3(0, 0, 5), s.Camera.Position())
	assert.Equal(t, float32(60), s.CameraConfig.Fov)
}

func TestFromDocument_NoSpheresOrLights(t *testing.T) {
	text := `camera_position 0 0 5
camera_look 0 0 0
camera_fov 60
background 0 0 0
resolution 4 4
`
	s, err := FromDocument(parse(t, text))
	require.NoError(t, err)
	assert.Empty(t, s.Spheres)
	assert.Empty(t, s.Lights)
}

func TestFromDocument_Errors(t *testing.T) {
	tests := []struct {
		name    string
		drop    string
		replace string
		target  error
	}{
		{"missing camera position", "camera_position 0 0 5", "", loaders.ErrMissingKey},
		{"missing fov", "camera_fov 60", "", loaders.ErrMissingKey},
		{"missing background", "background 0.2 0.2 0.8", "", loaders.ErrMissingKey},
		{"missing resolution", "resolution 32 16", "", loaders.ErrMissingKey},
		{"short look-at", "camera_look 0 0 0", "camera_look 0 0", loaders.ErrIndexOutOfRange},
		{"short sphere", "sphere 0.5  2 0 -1  1 0 0", "sphere 0.5 2 0 -1 1 0", loaders.ErrIndexOutOfRange},
		{"short light", "light 0 10 0  1 1 1", "light 0 10 0 1", loaders.ErrIndexOutOfRange},
		{"short resolution", "resolution 32 16", "resolution 32", loaders.ErrIndexOutOfRange},
		{"zero resolution", "resolution 32 16", "resolution 0 16", nil},
		{"fractional resolution", "resolution 32 16", "resolution 32.5 16", nil},
		{"huge resolution", "resolution 32 16", "resolution 4294967296 4294967296", nil},
		{"resolution product too large", "resolution 32 16", "resolution 65536 65536", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.Replace(minimalScene, tt.drop, tt.replace, 1)
			s, err := FromDocument(parse(t, text))
			require.Error(t, err)
			assert.Nil(t, s)
			if tt.target != nil {
				assert.True(t, errors.Is(err, tt.target), "got %v", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlScene := `# Scene: YAML Sphere
camera_position: [0, 0, 5]
camera_look: [0, 0, 0]
camera_fov: 60
background: [0.2, 0.2, 0.8]
sphere:
  - [1, 0, 0, 0, 1, 1, 1]
light:
  - [0, 10, 0, 1, 1, 1]
resolution: [64, 64]
`
	s, err := LoadFile(writeSceneFile(t, dir, "sphere.yaml", yamlScene))
	require.NoError(t, err)
	assert.Len(t, s.Spheres, 1)
	assert.Equal(t, 64, s.Width)

	_, err = LoadFile(writeSceneFile(t, dir, "bad.scene", "camera_fov 60\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.scene")

	_, err = LoadFile(filepath.Join(dir, "missing.scene"))
	assert.Error(t, err)
}

func TestBuiltInScenes(t *testing.T) {
	s := NewDefaultScene()
	assert.Equal(t, 64, s.Width)
	assert.Equal(t, 64, s.Height)
	require.Len(t, s.Spheres, 1)
	require.Len(t, s.Lights, 1)

	grid := NewSphereGridScene(3)
	assert.Len(t, grid.Spheres, 9)
	assert.Len(t, grid.Lights, 2)
	for _, sp := range grid.Spheres {
		for i := 0; i < 3; i++ {
			assert.GreaterOrEqual(t, sp.Color[i], float32(0))
			assert.LessOrEqual(t, sp.Color[i], float32(1))
		}
	}

	assert.Len(t, NewSphereGridScene(0).Spheres, 1)
}
