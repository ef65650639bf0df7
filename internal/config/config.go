package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultInstallPath    = "stanford-ner"
	DefaultJarFile        = "stanford-ner.jar"
	DefaultClassifierFile = "english.all.3class.distsim.crf.ser.gz"
	DefaultHeapSizeMB     = 700
	DefaultJavaBin        = "java"
)

// Config holds runtime parameters for the tagger.
// Zero values mean "unspecified" and are replaced by defaults in ApplyDefaults.
type Config struct {
	// InstallPath is the root of the engine installation on disk.
	InstallPath string `json:"install_path" yaml:"install_path" toml:"install_path"`
	// JarFile is the engine jar filename, relative to InstallPath.
	JarFile string `json:"jar_file" yaml:"jar_file" toml:"jar_file"`
	// ClassifierFile is the serialized classifier filename, relative to
	// InstallPath/classifiers.
	ClassifierFile string `json:"classifier_file" yaml:"classifier_file" toml:"classifier_file"`
	// HeapSizeMB is the JVM max heap in megabytes.
	HeapSizeMB int `json:"heap_size_mb" yaml:"heap_size_mb" toml:"heap_size_mb"`
	// JavaBin is the java executable to spawn.
	JavaBin string `json:"java_bin" yaml:"java_bin" toml:"java_bin"`
	// MetricsAddr, when non-empty, enables the observability HTTP listener
	// (healthz, status, metrics).
	MetricsAddr string `json:"metrics_addr" yaml:"metrics_addr" toml:"metrics_addr"`
	// LogLevel is the zerolog level name (debug, info, warn, error).
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Default returns a Config populated with package defaults.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills unset fields with package defaults.
func (c *Config) ApplyDefaults() {
	if c.InstallPath == "" {
		c.InstallPath = DefaultInstallPath
	}
	if c.JarFile == "" {
		c.JarFile = DefaultJarFile
	}
	if c.ClassifierFile == "" {
		c.ClassifierFile = DefaultClassifierFile
	}
	if c.HeapSizeMB <= 0 {
		c.HeapSizeMB = DefaultHeapSizeMB
	}
	if c.JavaBin == "" {
		c.JavaBin = DefaultJavaBin
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// JarPath returns the absolute-ish path to the engine jar.
func (c Config) JarPath() string {
	return filepath.Join(c.InstallPath, c.JarFile)
}

// ClassifierPath returns the path to the serialized classifier.
func (c Config) ClassifierPath() string {
	return filepath.Join(c.InstallPath, "classifiers", c.ClassifierFile)
}

// LibDir returns the engine's bundled library directory.
func (c Config) LibDir() string {
	return filepath.Join(c.InstallPath, "lib")
}

// missingFileError signals a required installation file absent on disk.
// Startup must refuse to spawn the engine rather than launch a broken process.
type missingFileError struct {
	kind string
	path string
}

func (e missingFileError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.path)
}

// IsMissingFile reports whether err indicates a missing jar or classifier.
func IsMissingFile(err error) bool {
	_, ok := err.(missingFileError)
	return ok
}

// Validate checks that the jar and classifier exist on disk. Both checks run
// against regular files; a directory at either path is treated as missing.
func (c Config) Validate() error {
	if err := checkFile("engine jar", c.JarPath()); err != nil {
		return err
	}
	if err := checkFile("classifier", c.ClassifierPath()); err != nil {
		return err
	}
	return nil
}

func checkFile(kind, path string) error {
	fi, err := os.Stat(path)
	if err != nil || fi.IsDir() {
		return missingFileError{kind: kind, path: path}
	}
	return nil
}
