package scene

import (
	"fmt"
	"sort"
)

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category

	build func() *SceneData
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

var builtinScenes = []SceneInfo{
	{
		ID:          "default",
		DisplayName: "Default",
		Description: "Matte, mirror and glass spheres on a checkered floor",
		Group:       "Showcase",
		build:       NewDefaultScene,
	},
	{
		ID:          "hallway",
		DisplayName: "Mirror Hallway",
		Description: "Two facing mirrors reflecting until the trace level runs out",
		Group:       "Recursion",
		build:       func() *SceneData { return NewMirrorHallwayScene(0.9) },
	},
	{
		ID:          "layered",
		DisplayName: "Layered Filter",
		Description: "A red filtering layer over opaque blue",
		Group:       "Textures",
		build:       NewLayeredFilterScene,
	},
	{
		ID:          "shadows",
		DisplayName: "Shadows",
		Description: "Opaque and filtering occluders over a floor",
		Group:       "Lighting",
		build:       NewShadowScene,
	},
	{
		ID:          "spheregrid",
		DisplayName: "Sphere Grid",
		Description: "Four hundred metallic spheres for the intersection index",
		Group:       "Showcase",
		build:       func() *SceneData { return NewSphereGridScene(20) },
	},
	{
		ID:          "subsurface",
		DisplayName: "Subsurface",
		Description: "A translucent wax sphere",
		Group:       "Lighting",
		build:       NewSubsurfaceScene,
	},
}

// ListScenes returns the built-in scenes sorted by display name
func ListScenes() []SceneInfo {
	scenes := append([]SceneInfo(nil), builtinScenes...)
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes
}

// GroupScenes organizes scenes into groups, groups sorted by name
func GroupScenes(scenes []SceneInfo) []SceneGroup {
	byName := make(map[string][]SceneInfo)
	for _, s := range scenes {
		byName[s.Group] = append(byName[s.Group], s)
	}

	groups := make([]SceneGroup, 0, len(byName))
	for name, members := range byName {
		groups = append(groups, SceneGroup{Name: name, Scenes: members})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})
	return groups
}

// Build creates a fresh copy of the built-in scene with the given id
func Build(id string) (*SceneData, error) {
	for _, s := range builtinScenes {
		if s.ID == id {
			return s.build(), nil
		}
	}
	return nil, fmt.Errorf("unknown scene %q", id)
}
