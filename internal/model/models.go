package model

// All returns every model for automigration, parents before children.
func All() []interface{} {
	return []interface{}{
		&School{},
		&Branch{},
		&User{},
		&Profile{},
		&Teacher{},
		&Parent{},
		&Staff{},
		&Class{},
		&Section{},
		&Student{},
		&Subject{},
		&Chapter{},
		&Lesson{},
		&Timetable{},
		&Attendance{},
		&Fee{},
		&Announcement{},
	}
}
