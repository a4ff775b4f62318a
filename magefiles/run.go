//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Generates a mesh from the given TOML config. An empty path uses the defaults.
func (Run) Mesh(config string) error {
	args := []string{"run", "."}
	if config != "" {
		args = append(args, "-config", config)
	}
	fmt.Println("Run quatmesh...")
	if _, err := executeCmd("go", withArgs(args...), withStream()); err != nil {
		return err
	}
	return nil
}

// Regenerates the mesh every time the config file changes.
func (Run) Watch(config string) error {
	if _, err := executeCmd("go", withArgs("run", ".", "-config", config, "-watch"), withStream()); err != nil {
		return err
	}
	return nil
}
