package inmemdb

import (
	"context"
	"sort"

	"github.com/mwalimu/shule/core"
	"github.com/mwalimu/shule/core/course"
	"github.com/mwalimu/shule/core/user"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) queryCourses() []course.Course {
	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		courses = append(courses, *crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses
}

func (repo *courseRepository) queryEnrollments() []course.Enrollment {
	enrs := make([]course.Enrollment, 0, len(repo.db.enrollments))
	for _, enr := range repo.db.enrollments {
		enrs = append(enrs, *enr)
	}
	sort.Slice(enrs, func(i, j int) bool { return enrs[i].ID < enrs[j].ID })
	return enrs
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course, exec ...core.DBExecutor) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.courseID++
	crs.ID = repo.db.courseID
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id int) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrCourseNotFound
}

func (repo *courseRepository) QueryAllCourses(ctx context.Context) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.queryCourses(), nil
}

func (repo *courseRepository) QueryCoursesByTeacher(ctx context.Context, teacherUsername string) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := make([]course.Course, 0)
	for _, crs := range repo.queryCourses() {
		if crs.TeacherUsername.String == teacherUsername {
			courses = append(courses, crs)
		}
	}
	return courses, nil
}

func (repo *courseRepository) QueryCoursesByStudent(ctx context.Context, studentUsername string) ([]course.StudentCourse, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	enrolled := make(map[int]bool)
	for _, enr := range repo.db.enrollments {
		if enr.StudentUsername == studentUsername {
			enrolled[enr.CourseID] = true
		}
	}

	courses := make([]course.StudentCourse, 0)
	for _, crs := range repo.queryCourses() {
		if enrolled[crs.ID] {
			courses = append(courses, course.StudentCourse{
				CourseID:        crs.ID,
				CourseName:      crs.Name,
				TeacherUsername: crs.TeacherUsername,
				Credits:         crs.Credits,
			})
		}
	}
	return courses, nil
}

func (repo *courseRepository) StudentExists(ctx context.Context, username string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	usr, ok := repo.db.users[username]
	return ok && usr.Role == user.RoleStudent, nil
}

func (repo *courseRepository) CreateEnrollment(ctx context.Context, enr course.Enrollment, exec ...core.DBExecutor) (course.Enrollment, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.enrollmentID++
	enr.ID = repo.db.enrollmentID
	repo.db.enrollments[enr.ID] = &enr
	return enr, nil
}

func (repo *courseRepository) QueryEnrollmentsByTeacher(ctx context.Context, teacherUsername string) ([]course.EnrollmentInfo, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	enrs := make([]course.EnrollmentInfo, 0)
	for _, enr := range repo.queryEnrollments() {
		crs, ok := repo.db.courses[enr.CourseID]
		if !ok || crs.TeacherUsername.String != teacherUsername {
			continue
		}
		enrs = append(enrs, course.EnrollmentInfo{
			StudentUsername: enr.StudentUsername,
			CourseID:        enr.CourseID,
			CourseName:      crs.Name,
			Grade:           enr.Grade,
		})
	}
	return enrs, nil
}

func (repo *courseRepository) QueryEnrollmentsByStudent(ctx context.Context, studentUsername string) ([]course.EnrollmentInfo, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	enrs := make([]course.EnrollmentInfo, 0)
	for _, enr := range repo.queryEnrollments() {
		if enr.StudentUsername != studentUsername {
			continue
		}
		info := course.EnrollmentInfo{
			StudentUsername: enr.StudentUsername,
			CourseID:        enr.CourseID,
			Grade:           enr.Grade,
		}
		if crs, ok := repo.db.courses[enr.CourseID]; ok {
			info.CourseName = crs.Name
		}
		enrs = append(enrs, info)
	}
	return enrs, nil
}

func (repo *courseRepository) UpdateGrade(ctx context.Context, studentUsername string, courseID int, grade float64) (int64, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	var n int64
	for _, enr := range repo.db.enrollments {
		if enr.StudentUsername == studentUsername && enr.CourseID == courseID {
			enr.Grade.SetValid(grade)
			n++
		}
	}
	return n, nil
}
