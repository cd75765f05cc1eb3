// Package folder implements numbered artifact folders. Experiment layouts
// name runs, checkpoints and analyses with an ascending number embedded in
// the file name ("RUN-$", "epoch-$.ckpt"); this package lists, resolves and
// generates such names with proper numeric ordering, which plain lexical
// directory listings get wrong (RUN-2 sorts after RUN-10).
package folder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/spf13/afero"

	"github.com/atelier-ml/atelier/pkg/fsutil"
)

// Folder wraps a directory on an afero filesystem.
type Folder struct {
	fs       afero.Fs
	location string
}

func New(fs afero.Fs, location string) *Folder {
	return &Folder{fs: fs, location: filepath.Clean(location)}
}

// NewOS returns a Folder on the operating system filesystem.
func NewOS(location string) *Folder {
	return New(afero.NewOsFs(), location)
}

func (f *Folder) Location() string {
	return f.location
}

func (f *Folder) Fs() afero.Fs {
	return f.fs
}

// Cd returns a new Folder at the given sub path.
func (f *Folder) Cd(sub string) *Folder {
	return New(f.fs, filepath.Join(f.location, sub))
}

// Ls lists the entry names in the folder.
func (f *Folder) Ls() ([]string, error) {
	infos, err := afero.ReadDir(f.fs, f.location)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", f.location, err)
	}
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}

func (f *Folder) Mkdir(name string) error {
	return f.fs.Mkdir(filepath.Join(f.location, name), 0o755)
}

// Rmdir removes the named entry and everything below it.
func (f *Folder) Rmdir(name string) error {
	return f.fs.RemoveAll(filepath.Join(f.location, name))
}

func (f *Folder) Exists(name string) (bool, error) {
	return fsutil.Exists(f.fs, filepath.Join(f.location, name))
}

// EnsureExists creates the folder itself if it is not there yet.
func (f *Folder) EnsureExists() error {
	return fsutil.EnsureDir(f.fs, f.location)
}

// Numbered pairs an entry name with the number extracted from it.
type Numbered struct {
	Number int
	Name   string
}

// ListNumbered finds all entries matching nameFormat and returns them sorted
// by their embedded number. The format must contain exactly one `$` marking
// the number position; `*` matches arbitrary text and a `[...]` segment is
// optional.
func (f *Folder) ListNumbered(nameFormat string) ([]Numbered, error) {
	re, err := numberingRegex(nameFormat)
	if err != nil {
		return nil, err
	}
	isDir, err := fsutil.IsDir(f.fs, f.location)
	if err != nil || !isDir {
		return nil, nil
	}
	names, err := f.Ls()
	if err != nil {
		return nil, err
	}
	matched := make([]Numbered, 0, len(names))
	numberIdx := re.SubexpIndex("number")
	for _, name := range names {
		groups := re.FindStringSubmatch(name)
		if groups == nil {
			continue
		}
		number, err := strconv.Atoi(groups[numberIdx])
		if err != nil {
			continue
		}
		matched = append(matched, Numbered{Number: number, Name: name})
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Number < matched[j].Number })
	return matched, nil
}

// ListNumberedNames returns only the matching names, numerically sorted.
func (f *Folder) ListNumberedNames(nameFormat string) ([]string, error) {
	entries, err := f.ListNumbered(nameFormat)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return names, nil
}

// ListNumbers returns only the extracted numbers, sorted ascending.
func (f *Folder) ListNumbers(nameFormat string) ([]int, error) {
	entries, err := f.ListNumbered(nameFormat)
	if err != nil {
		return nil, err
	}
	numbers := make([]int, 0, len(entries))
	for _, entry := range entries {
		numbers = append(numbers, entry.Number)
	}
	return numbers, nil
}

// NameByNumber resolves the entry carrying the given number, if any.
func (f *Folder) NameByNumber(nameFormat string, number int) (string, bool, error) {
	entries, err := f.ListNumbered(nameFormat)
	if err != nil {
		return "", false, err
	}
	for _, entry := range entries {
		if entry.Number == number {
			return entry.Name, true, nil
		}
	}
	return "", false, nil
}

// NumberOfName extracts the number embedded in a name. The name does not have
// to exist on disk.
func NumberOfName(nameFormat, name string) (int, bool, error) {
	re, err := numberingRegex(nameFormat)
	if err != nil {
		return 0, false, err
	}
	groups := re.FindStringSubmatch(name)
	if groups == nil {
		return 0, false, nil
	}
	number, err := strconv.Atoi(groups[re.SubexpIndex("number")])
	if err != nil {
		return 0, false, nil
	}
	return number, true, nil
}

// Substitute fills number (and an optional free-text name) into nameFormat.
// `$` takes the number, `*` the name; a `[...]` segment around the wildcard
// is dropped entirely when no name is given.
func Substitute(nameFormat string, number int, name string) (string, error) {
	if strings.Count(nameFormat, "*") > 1 {
		return "", fmt.Errorf("wildcard '*' cannot appear more than once in %q", nameFormat)
	}
	wildcardPresent := strings.Contains(nameFormat, "*")
	openIdx := strings.Index(nameFormat, "[")
	closeIdx := strings.Index(nameFormat, "]")
	wildcardIdx := strings.Index(nameFormat, "*")
	wildcardOptional := openIdx >= 0 && closeIdx > openIdx &&
		openIdx < wildcardIdx && wildcardIdx < closeIdx

	if !wildcardOptional && wildcardPresent == (name == "") {
		return "", fmt.Errorf("name format %q and name %q do not agree on the '*' wildcard", nameFormat, name)
	}

	substituted := strings.ReplaceAll(nameFormat, "$", strconv.Itoa(number))
	switch {
	case wildcardPresent && name != "":
		substituted = strings.ReplaceAll(substituted, "*", name)
		if wildcardOptional {
			substituted = strings.ReplaceAll(substituted, "[", "")
			substituted = strings.ReplaceAll(substituted, "]", "")
		}
	case wildcardOptional:
		openIdx = strings.Index(substituted, "[")
		closeIdx = strings.Index(substituted, "]")
		substituted = substituted[:openIdx] + substituted[closeIdx+1:]
	}
	return substituted, nil
}

// NextName generates a name whose number is one above the highest currently
// present (1 when the folder holds no matches or only negative numbers).
// When createFolder is set, the folder is created as part of name
// generation; a concurrent run grabbing the same number triggers a bounded
// retry with a freshly computed name.
func (f *Folder) NextName(ctx context.Context, nameFormat, name string, createFolder bool) (string, error) {
	var generated string
	backoff := retry.WithMaxRetries(5, retry.NewConstant(10*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		numbers, err := f.ListNumbers(nameFormat)
		if err != nil {
			return err
		}
		nextID := 1
		if len(numbers) > 0 {
			if maxID := numbers[len(numbers)-1]; maxID > 0 {
				nextID = maxID + 1
			}
		}
		generated, err = Substitute(nameFormat, nextID, name)
		if err != nil {
			return err
		}
		if !createFolder {
			return nil
		}
		if err := f.Mkdir(generated); err != nil {
			if os.IsExist(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate next name for %q in %s: %w", nameFormat, f.location, err)
	}
	return generated, nil
}

// numberingRegex turns a name format into an anchored extraction regex:
// `$` captures a possibly negative integer, `*` matches lazily so it cannot
// swallow the sign of a trailing number, `[...]` becomes an optional group.
func numberingRegex(nameFormat string) (*regexp.Regexp, error) {
	if strings.Count(nameFormat, "$") != 1 {
		return nil, fmt.Errorf("name format %q must contain the number marker '$' exactly once", nameFormat)
	}
	if strings.Count(nameFormat, "[") != strings.Count(nameFormat, "]") {
		return nil, fmt.Errorf("square brackets not matching in name format %q", nameFormat)
	}
	pattern := regexp.QuoteMeta(nameFormat)
	pattern = strings.ReplaceAll(pattern, `\[`, "(")
	pattern = strings.ReplaceAll(pattern, `\]`, ")?")
	pattern = strings.ReplaceAll(pattern, `\$`, `(?P<number>-?\d+)`)
	pattern = strings.ReplaceAll(pattern, `\*`, ".*?")
	return regexp.Compile("^" + pattern + "$")
}

func (f *Folder) String() string {
	return f.location
}
