package target

import "path/filepath"

// Builtin returns the default benchmark suite: one binary-trees
// implementation per language under root, in the order rows should
// appear in the report. pythonExec runs the Python implementation.
func Builtin(root string, pythonExec string) []Target {
	return []Target{
		{
			Name:     "Go",
			Dir:      filepath.Join(root, "go"),
			Template: []string{"./binarytrees", Placeholder},
			Env:      map[string]string{"GOCACHE": filepath.Join(root, "go", ".gocache")},
			Builder:  BuildGo,
		},
		{
			Name:     "Java",
			Dir:      filepath.Join(root, "java"),
			Template: []string{"java", "BinaryTrees", Placeholder},
			Builder:  BuildJavac,
		},
		{
			Name:     "Node.js",
			Dir:      filepath.Join(root, "nodejs"),
			Template: []string{"node", "main.js", Placeholder},
			Builder:  BuildNpm,
		},
		{
			Name:     "Python",
			Dir:      filepath.Join(root, "python"),
			Template: []string{pythonExec, "main.py", Placeholder},
			Builder:  BuildPip,
		},
		{
			Name:     "Rust",
			Dir:      filepath.Join(root, "rust"),
			Template: []string{"./target/release/rust", Placeholder},
			Builder:  BuildCargo,
		},
		{
			Name:     "C++ manual delete",
			Dir:      filepath.Join(root, "cpp"),
			Template: []string{"./binarytrees_manual", Placeholder},
			Builder:  BuildGpp,
		},
		{
			Name:     "C++ unique_ptr",
			Dir:      filepath.Join(root, "cpp"),
			Template: []string{"./binarytrees_unique", Placeholder},
			Builder:  BuildGpp,
		},
		{
			Name:     ".NET",
			Dir:      filepath.Join(root, "dotnet"),
			Template: []string{"./bin/Release/net10.0/linux-x64/publish/BinaryTrees", Placeholder},
			Builder:  BuildDotnet,
		},
	}
}
