package main

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"

	"school-service/internal/handler"
	"school-service/internal/middleware"
	"school-service/internal/model"
	"school-service/internal/revalidate"
	"school-service/internal/service"
	"school-service/pkg/config"
	"school-service/pkg/database"
	"school-service/pkg/jwtutil"
	"school-service/pkg/logger"
	"school-service/prometheus"
)

func main() {
	conf, err := config.Load("school")
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.InitLogger(&logger.LogConfig{
		Level:       conf.Log.Level,
		Environment: conf.Server.Env,
		ServiceName: conf.ServiceName,
	})
	if err != nil {
		fmt.Printf("Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.GetLogger()
	log.Info("Starting school-service", conf.LogConfig()...)

	db, err := database.InitDB(&conf.DB)
	if err != nil {
		log.Fatal("Failed to initialize database")
	}
	if err := database.MigrateModels(model.All()...); err != nil {
		log.Fatal("Failed to migrate database models")
	}

	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:      conf.JWT.SigningKey,
		ExpirationHours: conf.JWT.ExpirationHours,
	})

	revalidate.Init(log)

	// Services
	authSvc := service.NewAuthService(db, jwt)
	schoolSvc := service.NewSchoolService(db)
	branchSvc := service.NewBranchService(db)
	classSvc := service.NewClassService(db)
	sectionSvc := service.NewSectionService(db)
	subjectSvc := service.NewSubjectService(db)
	teacherSvc := service.NewTeacherService(db)
	studentSvc := service.NewStudentService(db)
	parentSvc := service.NewParentService(db)
	staffSvc := service.NewStaffService(db)
	admissionSvc := service.NewAdmissionService(db, conf.Admission.DefaultPassword)
	timetableSvc := service.NewTimetableService(db)
	attendanceSvc := service.NewAttendanceService(db)
	feeSvc := service.NewFeeService(db)
	announcementSvc := service.NewAnnouncementService(db)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	schoolH := handler.NewSchoolHandler(schoolSvc)
	branchH := handler.NewBranchHandler(branchSvc)
	classH := handler.NewClassHandler(classSvc)
	sectionH := handler.NewSectionHandler(sectionSvc)
	subjectH := handler.NewSubjectHandler(subjectSvc)
	teacherH := handler.NewTeacherHandler(teacherSvc)
	studentH := handler.NewStudentHandler(studentSvc)
	parentH := handler.NewParentHandler(parentSvc)
	staffH := handler.NewStaffHandler(staffSvc)
	admissionH := handler.NewAdmissionHandler(admissionSvc)
	timetableH := handler.NewTimetableHandler(timetableSvc)
	attendanceH := handler.NewAttendanceHandler(attendanceSvc)
	feeH := handler.NewFeeHandler(feeSvc)
	announcementH := handler.NewAnnouncementHandler(announcementSvc)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestIDMiddleware())
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())

	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.GET("/health", handler.HealthCheck)

	// Public routes
	e.POST("/auth/login", authH.Login)

	// Authenticated routes
	api := e.Group("/api")
	api.Use(middleware.JWTAuthMiddleware(jwt))

	api.GET("/auth/me", authH.Me)

	api.GET("/school", schoolH.Get)
	api.PUT("/school", schoolH.Update)

	api.POST("/branches", branchH.Create)
	api.GET("/branches", branchH.List)
	api.GET("/branches/:id", branchH.Get)
	api.PUT("/branches/:id", branchH.Update)
	api.DELETE("/branches/:id", branchH.Delete)

	api.POST("/classes", classH.Create)
	api.GET("/classes", classH.List)
	api.GET("/classes/search", classH.Search)
	api.GET("/classes/stats", classH.Stats)
	api.GET("/classes/available-teachers", classH.AvailableTeachers)
	api.GET("/classes/:id", classH.Get)
	api.PUT("/classes/:id", classH.Update)
	api.DELETE("/classes/:id", classH.Delete)
	api.GET("/classes/:id/subjects", classH.Subjects)
	api.POST("/classes/:id/students", classH.AssignStudents)

	api.POST("/sections", sectionH.Create)
	api.GET("/sections", sectionH.List)
	api.GET("/sections/:id", sectionH.Get)
	api.GET("/sections/:id/next-roll-number", sectionH.NextRollNumber)
	api.PUT("/sections/:id", sectionH.Update)
	api.DELETE("/sections/:id", sectionH.Delete)

	api.POST("/subjects", subjectH.Create)
	api.GET("/subjects", subjectH.List)
	api.GET("/subjects/:id", subjectH.Get)
	api.PUT("/subjects/:id", subjectH.Update)
	api.DELETE("/subjects/:id", subjectH.Delete)
	api.POST("/subjects/:id/chapters", subjectH.AddChapter)
	api.PUT("/chapters/:chapterId", subjectH.UpdateChapter)
	api.DELETE("/chapters/:chapterId", subjectH.DeleteChapter)
	api.POST("/chapters/:chapterId/lessons", subjectH.AddLesson)
	api.PUT("/lessons/:lessonId", subjectH.UpdateLesson)
	api.DELETE("/lessons/:lessonId", subjectH.DeleteLesson)

	api.POST("/teachers", teacherH.Create)
	api.GET("/teachers", teacherH.List)
	api.GET("/teachers/search", teacherH.Search)
	api.GET("/teachers/stats", teacherH.Stats)
	api.GET("/teachers/:id", teacherH.Get)
	api.PUT("/teachers/:id", teacherH.Update)
	api.DELETE("/teachers/:id", teacherH.Delete)

	api.POST("/students", studentH.Create)
	api.GET("/students", studentH.List)
	api.GET("/students/search", studentH.Search)
	api.GET("/students/stats", studentH.Stats)
	api.GET("/students/:id", studentH.Get)
	api.PUT("/students/:id", studentH.Update)
	api.DELETE("/students/:id", studentH.Delete)

	api.POST("/parents", parentH.Create)
	api.GET("/parents", parentH.List)
	api.GET("/parents/search", parentH.Search)
	api.GET("/parents/:id", parentH.Get)
	api.PUT("/parents/:id", parentH.Update)
	api.DELETE("/parents/:id", parentH.Delete)

	api.POST("/staff", staffH.Create)
	api.GET("/staff", staffH.List)
	api.GET("/staff/search", staffH.Search)
	api.GET("/staff/:id", staffH.Get)
	api.PUT("/staff/:id", staffH.Update)
	api.DELETE("/staff/:id", staffH.Delete)

	api.POST("/admissions", admissionH.Admit)

	api.POST("/timetable", timetableH.Create)
	api.GET("/timetable", timetableH.List)
	api.GET("/timetable/stats", timetableH.Stats)
	api.GET("/timetable/:id", timetableH.Get)
	api.PUT("/timetable/:id", timetableH.Update)
	api.DELETE("/timetable/:id", timetableH.Delete)

	api.POST("/attendance", attendanceH.Mark)
	api.GET("/attendance/section/:id", attendanceH.ListBySection)
	api.GET("/attendance/student/:id", attendanceH.ListByStudent)
	api.GET("/attendance/student/:id/stats", attendanceH.StudentStats)

	api.POST("/fees", feeH.Create)
	api.GET("/fees/summary", feeH.Summary)
	api.GET("/fees/student/:id", feeH.ListByStudent)
	api.POST("/fees/:id/pay", feeH.Pay)

	api.POST("/announcements", announcementH.Create)
	api.GET("/announcements", announcementH.List)
	api.GET("/announcements/:id", announcementH.Get)
	api.PUT("/announcements/:id", announcementH.Update)
	api.DELETE("/announcements/:id", announcementH.Delete)

	log.Info("Listening on port " + conf.Server.Port)
	e.Logger.Fatal(e.Start(":" + conf.Server.Port))
}
