// Package config подгружает переменные окружения из .env-файлов.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DotEnvFiles: файлы в порядке приоритета.
var DotEnvFiles = []string{".env.local", ".env"}

// LoadDotEnv загружает существующие .env-файлы из dir ("": текущий каталог).
// godotenv.Load не перезаписывает уже заданные переменные, поэтому окружение
// процесса побеждает, а .env.local побеждает .env. Возвращает загруженные пути.
func LoadDotEnv(dir string) ([]string, error) {
	var loaded []string
	for _, name := range DotEnvFiles {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			loaded = append(loaded, path)
		}
	}
	if len(loaded) == 0 {
		return nil, nil
	}
	if err := godotenv.Load(loaded...); err != nil {
		return nil, err
	}
	return loaded, nil
}
