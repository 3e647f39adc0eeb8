//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/docker/docker/pkg/stdcopy"
	"github.com/encodeous/spantree/state"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	ImageName   = "spantree-debug:latest"
	WaitTimeout = 2 * time.Minute
	// TopologyPath is where WriteTopology files end up inside every node.
	TopologyPath = "/app/topology.yaml"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func StripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func findRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	// Traversing up to find go.mod
	rootDir := wd
	for {
		if _, err := os.Stat(filepath.Join(rootDir, "go.mod")); err == nil {
			return rootDir, nil
		}
		parent := filepath.Dir(rootDir)
		if parent == rootDir {
			return "", fmt.Errorf("could not find project root")
		}
		rootDir = parent
	}
}

type Harness struct {
	t       *testing.T
	mu      sync.Mutex
	ctx     context.Context
	Nodes   map[string]testcontainers.Container
	RootDir string
}

func NewHarness(t *testing.T) *Harness {
	rootDir, err := findRoot()
	if err != nil {
		t.Fatal(err)
	}
	h := &Harness{
		t:       t,
		ctx:     context.Background(),
		Nodes:   make(map[string]testcontainers.Container),
		RootDir: rootDir,
	}
	t.Cleanup(func() {
		h.Cleanup()
	})
	return h
}

// StartNode starts an idle container with the topology file copied in. Commands are run with Exec.
func (h *Harness) StartNode(name string, topologyPath string) testcontainers.Container {
	h.t.Logf("Starting node %s", name)
	req := testcontainers.ContainerRequest{
		Image: ImageName,
		Files: []testcontainers.ContainerFile{
			{
				HostFilePath:      topologyPath,
				ContainerFilePath: TopologyPath,
				FileMode:          0644,
			},
		},
		Cmd:        []string{"sh", "-c", "echo ready && exec tail -f /dev/null"},
		WaitingFor: wait.ForLog("ready").WithStartupTimeout(30 * time.Second),
		Name:       h.t.Name() + "-" + name,
	}
	cont, err := testcontainers.GenericContainer(h.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		h.t.Fatalf("failed to start container %s: %v", name, err)
	}
	h.mu.Lock()
	h.Nodes[name] = cont
	h.mu.Unlock()
	return cont
}

func (h *Harness) Cleanup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for name, c := range h.Nodes {
		if err := c.Terminate(h.ctx); err != nil {
			h.t.Logf("failed to terminate container %s: %v", name, err)
		}
	}
}

// Exec runs cmd in the node and returns its demultiplexed output. A non-zero exit code is returned as an error.
func (h *Harness) Exec(nodeName string, cmd []string) (string, string, error) {
	h.mu.Lock()
	container, ok := h.Nodes[nodeName]
	h.mu.Unlock()

	if !ok {
		return "", "", fmt.Errorf("node %s not found", nodeName)
	}

	ctx, cancel := context.WithTimeout(h.ctx, WaitTimeout)
	defer cancel()
	code, r, err := container.Exec(ctx, cmd)
	if err != nil {
		return "", "", err
	}

	stdoutBuf := new(bytes.Buffer)
	stderrBuf := new(bytes.Buffer)

	// Demultiplex the stream using stdcopy
	_, err = stdcopy.StdCopy(stdoutBuf, stderrBuf, r)
	if err != nil {
		return "", "", fmt.Errorf("failed to copy output: %w", err)
	}

	stdout := StripAnsi(stdoutBuf.String())
	stderr := StripAnsi(stderrBuf.String())

	if code != 0 {
		return stdout, stderr, fmt.Errorf("command exited with code %d: %s\nStderr: %s", code, stdout, stderr)
	}

	return stdout, stderr, nil
}

// SetupTestDir creates a directory for the current test run
func (h *Harness) SetupTestDir() string {
	dir := filepath.Join(h.RootDir, "e2e", "runs", h.t.Name())
	// Clean up previous run
	os.RemoveAll(dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		h.t.Fatal(err)
	}
	return dir
}

// WriteTopology writes cfg without validating it, so broken topologies can be handed to the CLI.
func (h *Harness) WriteTopology(dir, filename string, cfg state.TopologyCfg) string {
	path := filepath.Join(dir, filename)
	if err := state.WriteTopology(path, &cfg); err != nil {
		h.t.Fatal(err)
	}
	return path
}
