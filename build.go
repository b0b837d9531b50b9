//go:build ignore

// build.go - Academic Pulse Build System
// Usage: go run build.go [-target=TARGET]
// Targets: all, web, profiler, clean, test, package

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

const module = "acadpulse"

// Executable names (key = cmd dir name, value = output name without extension)
var executables = map[string]string{
	"web":      "acadpulse",
	"profiler": "profiler",
}

var (
	distDir = "dist"

	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorYellow = "\033[33m"
)

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	printHeader()
	start := time.Now()

	var err error
	switch *target {
	case "all":
		err = buildAll(*verbose)
	case "web", "profiler":
		err = buildExecutable(*target, *verbose)
	case "clean":
		err = os.RemoveAll(distDir)
	case "test":
		err = run(*verbose, "go", "test", "-race", "./...")
	case "package":
		err = createPackage(*verbose)
	default:
		showHelp()
		os.Exit(1)
	}
	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(start).Round(time.Millisecond)))
}

func printHeader() {
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println(colorCyan + "      Academic Pulse - Build System        " + colorReset)
	fmt.Println(colorCyan + "===========================================" + colorReset)
	fmt.Println()
}

func printInfo(msg string) {
	fmt.Printf("%s[INFO]%s %s\n", colorBlue, colorReset, msg)
}

func printSuccess(msg string) {
	fmt.Printf("%s[SUCCESS]%s %s\n", colorGreen, colorReset, msg)
}

func printError(msg string) {
	fmt.Printf("%s[ERROR]%s %s\n", colorRed, colorReset, msg)
}

func printWarning(msg string) {
	fmt.Printf("%s[WARNING]%s %s\n", colorYellow, colorReset, msg)
}

func buildAll(verbose bool) error {
	printInfo("Building all components...")
	if err := os.MkdirAll(distDir, 0755); err != nil {
		return err
	}
	for name := range executables {
		if err := buildExecutable(name, verbose); err != nil {
			return err
		}
	}
	return copyConfigFiles(verbose)
}

func buildExecutable(name string, verbose bool) error {
	out := executables[name]
	if runtime.GOOS == "windows" {
		out += ".exe"
	}
	printInfo(fmt.Sprintf("Building %s...", out))

	ldflags := fmt.Sprintf("-s -w -X %s/internal/app.BuildTime=%s", module, time.Now().UTC().Format(time.RFC3339))
	return run(verbose, "go", "build", "-trimpath", "-ldflags", ldflags,
		"-o", filepath.Join(distDir, out), "./cmd/"+name)
}

// copyConfigFiles ships the sample config and the dashboard next to the binaries
func copyConfigFiles(verbose bool) error {
	for _, src := range []string{"config.yaml", "web"} {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			if verbose {
				printWarning(fmt.Sprintf("%s not found, skipping", src))
			}
			continue
		}
		if err := run(verbose, "cp", "-r", src, distDir); err != nil {
			return err
		}
	}
	return nil
}

func createPackage(verbose bool) error {
	if err := buildAll(verbose); err != nil {
		return err
	}
	archive := fmt.Sprintf("acadpulse-%s-%s.tar.gz", runtime.GOOS, runtime.GOARCH)
	printInfo("Packaging " + archive)
	return run(verbose, "tar", "-czf", archive, "-C", distDir, ".")
}

func run(verbose bool, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if verbose {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s %v: %w", name, args, err)
	}
	return nil
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all       Build the web service and the profiler CLI (default)")
	fmt.Println("  web       Build the web service")
	fmt.Println("  profiler  Build the batch profiler")
	fmt.Println("  clean     Remove build artifacts")
	fmt.Println("  test      Run all tests with the race detector")
	fmt.Println("  package   Build everything and create a tarball")
}
