package fsys

import "sync"

// File is the handle the bundler core treats as the read-only identity of
// one physical file — spec.md §1's "File handle (path, bytes, text content,
// relative/resolve helpers)". It is also the anchor for per-file module
// memoisation (spec.md §3 Lifecycle): the host session keyes its module
// cache on a File's AbsPath, never by mutating the File itself.
type File struct {
	FS      FS
	AbsPath string

	once     sync.Once
	bytes    []byte
	readErr  error
}

func NewFile(fs FS, absPath string) *File {
	return &File{FS: fs, AbsPath: absPath}
}

// NewFileWithContent builds a File whose content is already known —
// synthesized files the bundler core materialises itself, rather than
// reads from disk: an HTML module's inline `<script>`/`<style>` bodies and
// a module's extracted-CSS sibling (spec.md §3 Data Model, §4.5 HTML).
func NewFileWithContent(fs FS, absPath string, content []byte) *File {
	f := &File{FS: fs, AbsPath: absPath, bytes: content}
	f.once.Do(func() {})
	return f
}

// Bytes lazily reads and caches the file's contents.
func (f *File) Bytes() ([]byte, error) {
	f.once.Do(func() {
		f.bytes, f.readErr = f.FS.ReadFile(f.AbsPath)
	})
	return f.bytes, f.readErr
}

// Text is Bytes decoded as UTF-8.
func (f *File) Text() (string, error) {
	b, err := f.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Relative resolves `target` relative to this file's own directory, the way
// every module-kind scanner needs to turn a discovered URL into a candidate
// path before it's handed to the resolver.
func (f *File) Relative(target string) string {
	if target == "" {
		return f.Dir()
	}
	return f.FS.Join(f.Dir(), target)
}

func (f *File) Dir() string {
	return f.FS.Dir(f.AbsPath)
}

func (f *File) Base() string {
	return f.FS.Base(f.AbsPath)
}

func (f *File) Ext() string {
	return f.FS.Ext(f.AbsPath)
}

func (f *File) ExistsFile(path string) bool { return ExistsFile(f.FS, path) }
func (f *File) ExistsDir(path string) bool  { return ExistsDir(f.FS, path) }
