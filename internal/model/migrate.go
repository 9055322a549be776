package model

// All lists every table managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Lesson{},
		&Section{},
		&Subsection{},
		&ContentItem{},
		&Enrollment{},
		&VideoProgress{},
		&Note{},
	}
}
