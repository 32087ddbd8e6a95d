package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"learnhub/config"
	"learnhub/database"
	"learnhub/logger"
	courseModels "learnhub/models/course"

	"gorm.io/gorm"
)

// ImportStats counts what one import run did.
type ImportStats struct {
	Inserted int
	Updated  int
	Skipped  int
}

func main() {
	path := flag.String("file", "catalog.csv", "CSV file with one lesson per row")
	flag.Parse()

	// Load config and connect to database
	config.LoadConfig()
	if log, err := logger.New(config.AppConfig.AppEnv); err == nil {
		logger.Log = log
	}
	database.ConnectDb()

	file, err := os.Open(*path)
	if err != nil {
		logger.Log.Fatal("Failed to open CSV file", "file", *path, "error", err)
	}
	defer file.Close()

	stats, err := ImportCatalog(database.Database.Db, file)
	if err != nil {
		logger.Log.Fatal("Import failed", "error", err)
	}

	logger.Log.Info("=== Import Complete ===",
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"total", stats.Inserted+stats.Updated+stats.Skipped,
	)
}

// ImportCatalog reads lesson rows and creates or updates their categories,
// courses and lessons. Courses are matched by title, lessons by course and
// sequence. Columns: category, course, description, level, status, lesson,
// sequence, duration, type, video, audio.
func ImportCatalog(db *gorm.DB, r io.Reader) (*ImportStats, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, errors.New("CSV file is empty or has only headers")
	}

	// Map header indices
	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}
	logger.Log.Info("Importing catalog", "rows", len(records)-1)

	stats := &ImportStats{}
	touched := make(map[uint]bool)

	err = db.Transaction(func(tx *gorm.DB) error {
		categories := make(map[string]uint)
		courses := make(map[string]uint)

		for i, row := range records[1:] {
			courseTitle := getField(row, headerIndex, "course")
			lessonTitle := getField(row, headerIndex, "lesson")
			sequence := parseInt(getField(row, headerIndex, "sequence"))

			// Skip rows without a course, lesson or position
			if courseTitle == "" || lessonTitle == "" || sequence <= 0 {
				logger.Log.Warn("Skipping row", "row", i+2)
				stats.Skipped++
				continue
			}

			categoryID, err := categoryFor(tx, categories, getField(row, headerIndex, "category"))
			if err != nil {
				return err
			}
			courseID, err := courseFor(tx, courses, courseTitle, categoryID, row, headerIndex)
			if err != nil {
				return err
			}
			touched[courseID] = true

			lesson := courseModels.Lesson{
				CourseID:        courseID,
				Title:           lessonTitle,
				SequenceIndex:   sequence,
				DurationMinutes: parseInt(getField(row, headerIndex, "duration")),
				LessonType:      strings.ToUpper(getField(row, headerIndex, "type")),
				VideoURL:        getField(row, headerIndex, "video"),
				AudioURL:        getField(row, headerIndex, "audio"),
			}
			if lesson.LessonType == "" {
				lesson.LessonType = "VIDEO"
			}

			var existing courseModels.Lesson
			err = tx.Where("course_id = ? AND sequence_index = ?", courseID, sequence).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := tx.Create(&lesson).Error; err != nil {
					return fmt.Errorf("insert lesson %q: %w", lessonTitle, err)
				}
				stats.Inserted++
			case err != nil:
				return err
			default:
				existing.Title = lesson.Title
				existing.DurationMinutes = lesson.DurationMinutes
				existing.LessonType = lesson.LessonType
				existing.VideoURL = lesson.VideoURL
				existing.AudioURL = lesson.AudioURL
				if err := tx.Save(&existing).Error; err != nil {
					return fmt.Errorf("update lesson %q: %w", lessonTitle, err)
				}
				stats.Updated++
			}
		}

		for courseID := range touched {
			var count int64
			if err := tx.Model(&courseModels.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error; err != nil {
				return err
			}
			if err := tx.Model(&courseModels.Course{}).Where("id = ?", courseID).Update("total_lessons", count).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func categoryFor(tx *gorm.DB, cache map[string]uint, name string) (uint, error) {
	if name == "" {
		return 0, nil
	}
	if id, ok := cache[name]; ok {
		return id, nil
	}

	category := courseModels.Category{Name: name}
	if err := tx.Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
		return 0, fmt.Errorf("category %q: %w", name, err)
	}
	cache[name] = category.ID
	return category.ID, nil
}

func courseFor(tx *gorm.DB, cache map[string]uint, title string, categoryID uint, row []string, headerIndex map[string]int) (uint, error) {
	if id, ok := cache[title]; ok {
		return id, nil
	}

	var course courseModels.Course
	err := tx.Where("title = ?", title).First(&course).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	// Empty columns keep what an earlier import stored.
	course.Title = title
	if categoryID != 0 {
		course.CategoryID = categoryID
	}
	if v := getField(row, headerIndex, "description"); v != "" {
		course.Description = v
	}
	if v := getField(row, headerIndex, "level"); v != "" {
		course.Level = strings.ToUpper(v)
	}
	switch status := strings.ToUpper(getField(row, headerIndex, "status")); status {
	case courseModels.StatusPublished, courseModels.StatusDraft:
		course.Status = status
	default:
		if course.Status == "" {
			course.Status = courseModels.StatusDraft
		}
	}
	if err := tx.Save(&course).Error; err != nil {
		return 0, fmt.Errorf("course %q: %w", title, err)
	}

	cache[title] = course.ID
	return course.ID, nil
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

// parseInt converts string to int
func parseInt(s string) int {
	if s == "" {
		return 0
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return val
}
