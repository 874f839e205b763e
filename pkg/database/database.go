package database

import (
	"encoding/json"
	"fmt"
	"log"
	"studyplan_backend/internal/config"
	"studyplan_backend/internal/model"

	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Persona{},
		&model.Book{},
		&model.Chapter{},
		&model.Subchapter{},
		&model.ReadingCompletion{},
		&model.ReadingTimeLog{},
		&model.QuizAttempt{},
		&model.RevisionAttempt{},
		&model.StageTimeLog{},
		&model.ExamConfig{},
		&model.Plan{},
		&model.PlanStats{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedExamConfig(db); err != nil {
		return nil, err
	}

	return db, nil
}

// seedExamConfig inserts the default stage order and plan-type ranges so a
// fresh database can serve adaptive plan generation.
func seedExamConfig(db *gorm.DB) error {
	var count int64
	db.Model(&model.ExamConfig{}).Where("`key` = ?", model.DefaultExamConfigKey).Count(&count)
	if count > 0 {
		return nil
	}

	stages, err := json.Marshal(model.StageOrder)
	if err != nil {
		return err
	}

	planTypes, err := json.Marshal(map[string]model.StageRange{
		"none-basic":    {StartStage: model.StageRemember, FinalStage: model.StageUnderstand},
		"none-moderate": {StartStage: model.StageRemember, FinalStage: model.StageApply},
		"none-advanced": {StartStage: model.StageRemember, FinalStage: model.StageAnalyze},
	})
	if err != nil {
		return err
	}

	return db.Create(&model.ExamConfig{
		Key:       model.DefaultExamConfigKey,
		Stages:    datatypes.JSON(stages),
		PlanTypes: datatypes.JSON(planTypes),
	}).Error
}
