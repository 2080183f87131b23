package catalog

import "path"

// Default returns the built-in Learning Hub catalog. It matches the content
// tree shipped in the content package.
func Default() *Registry {
	r, err := New(DefaultSubjects())
	if err != nil {
		// The built-in catalog is covered by tests; failing here is a programming error.
		panic(err)
	}
	return r
}

// DefaultSubjects returns a fresh copy of the built-in subject list.
func DefaultSubjects() []Subject {
	return []Subject{
		subject("Java8-Plus", "Java 8+", "☕",
			folder(KindNotes,
				file("01-java8-fundamentals.md", "14 KB"),
				file("02-lambda-expressions.md", "11 KB"),
				file("03-streams-api.md", "18 KB"),
				file("04-optional-and-functional-interfaces.md", "9 KB"),
			),
			folder(KindQuestions, file("java8-practice-questions.md", "7 KB")),
			folder(KindQuiz, file("java8-quiz.md", "6 KB")),
			folder(KindRealProblems, file("java8-real-problems.md", "12 KB")),
			folder(KindInterviewQuestions, file("java8-interview-questions.md", "16 KB")),
		),
		subject("React-TypeScript", "React + TypeScript", "⚛️",
			folder(KindNotes,
				file("01-typescript-basics.md", "10 KB"),
				file("02-react-components.md", "12 KB"),
				file("03-hooks-and-state.md", "15 KB"),
			),
			folder(KindQuiz, file("react-quiz.md", "5 KB")),
			folder(KindInterviewQuestions, file("react-interview-questions.md", "13 KB")),
		),
		subject("Spring-Boot", "Spring Boot", "🍃",
			folder(KindNotes,
				file("01-spring-core.md", "13 KB"),
				file("02-spring-boot-basics.md", "11 KB"),
				file("03-spring-data-jpa.md", "14 KB"),
			),
			folder(KindQuestions, file("spring-practice-questions.md", "6 KB")),
			folder(KindInterviewQuestions, file("spring-interview-questions.md", "15 KB")),
		),
		subject("Oracle-SQL", "Oracle SQL", "🗄️",
			folder(KindNotes,
				file("01-sql-basics.md", "9 KB"),
				file("02-joins-and-subqueries.md", "12 KB"),
				file("03-plsql-fundamentals.md", "14 KB"),
			),
			folder(KindQuiz, file("sql-quiz.md", "5 KB")),
			folder(KindRealProblems, file("sql-real-problems.md", "10 KB")),
		),
	}
}

type folderSpec struct {
	kind  FolderKind
	files []FileRef
}

func subject(key, name, icon string, folders ...folderSpec) Subject {
	s := Subject{
		Key:         key,
		DisplayName: name,
		Icon:        icon,
		BasePath:    key,
		Folders:     make(map[FolderKind]*Folder, len(folders)),
	}
	for _, fs := range folders {
		f := newFolder(fs.kind)
		for _, ref := range fs.files {
			ref.Path = path.Join(s.BasePath, string(fs.kind), ref.FileName)
			f.Files = append(f.Files, ref)
		}
		s.Folders[fs.kind] = f
	}
	return s
}

func folder(kind FolderKind, files ...FileRef) folderSpec {
	return folderSpec{kind: kind, files: files}
}

func file(name, size string) FileRef {
	return FileRef{FileName: name, Size: size}
}

func newFolder(kind FolderKind) *Folder {
	return &Folder{
		Kind:        kind,
		DisplayName: kind.DisplayName(),
		Icon:        kind.Icon(),
	}
}
