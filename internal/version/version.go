// Package version хранит сведения о сборке, выставляемые через -ldflags:
//
//	go build -ldflags "-X github.com/vladislavdragonenkov/fanwaves/internal/version.version=v1.2.0"
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Info возвращает версию, коммит и дату сборки.
func Info() (v, c, d string) { return version, commit, date }

// GetVersion возвращает версию сборки.
func GetVersion() string { return version }

// GetCommit возвращает хеш коммита сборки.
func GetCommit() string { return commit }

// GetDate возвращает дату сборки.
func GetDate() string { return date }

// String форматирует сведения о сборке для `fanwaves-cart version`.
func String() string {
	return fmt.Sprintf("fanwaves-cart version=%s commit=%s date=%s", version, commit, date)
}
