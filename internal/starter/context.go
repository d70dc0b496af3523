package starter

import (
	"os"
	"os/user"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/nibzard/starter/internal/logging"
	"github.com/nibzard/starter/internal/render"
	"github.com/nibzard/starter/internal/template"
	"github.com/nibzard/starter/internal/ui"
)

// RunContext carries everything a run needs from its environment. It is built
// once per invocation and shared by pointer.
type RunContext struct {
	Logger *log.Logger
	// Fs holds the target tree, context INI files and search directories.
	Fs     afero.Fs
	Engine render.Engine
	Now    func() time.Time
	Getwd  func() (string, error)
	// User is the value of the USER context key.
	User    string
	HomeDir string
	// Catalog sources are probed after every directory on Fs.
	Catalog  []template.Source
	Prompter ui.Prompter
}

// NewRunContext returns a RunContext bound to the operating system.
func NewRunContext(logger *log.Logger) *RunContext {
	home, _ := os.UserHomeDir()
	return &RunContext{
		Logger:  logger,
		Fs:      afero.NewOsFs(),
		Engine:  render.NewEngine(),
		Now:     time.Now,
		Getwd:   os.Getwd,
		User:    currentUser(),
		HomeDir: home,
	}
}

// currentUser reads $USER and falls back to the account database.
func currentUser() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

// withDefaults fills unset fields so a partially built RunContext is usable.
func (rc RunContext) withDefaults() *RunContext {
	if rc.Logger == nil {
		rc.Logger = logging.Discard()
	}
	if rc.Fs == nil {
		rc.Fs = afero.NewOsFs()
	}
	if rc.Engine == nil {
		rc.Engine = render.NewEngine()
	}
	if rc.Now == nil {
		rc.Now = time.Now
	}
	if rc.Getwd == nil {
		rc.Getwd = os.Getwd
	}
	return &rc
}
