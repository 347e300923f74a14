package exercises

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// fieldUpdates builds the partial-overwrite column map for a matched record.
// Only fields present on the incoming record appear; stored values for
// absent fields survive the update. Order is always present — it is fully
// recomputed every batch.
func (rec Record) fieldUpdates() map[string]interface{} {
	updates := map[string]interface{}{
		"name":          rec.Name,
		"display_order": rec.Order,
	}
	setColumn := func(column string, value *string) {
		if value != nil {
			updates[column] = *value
		}
	}
	setColumn("machine_type", rec.MachineType)
	setColumn("level", rec.Level)
	setColumn("page", rec.Page)
	setColumn("machine_setup", rec.MachineSetup)
	setColumn("exercise_move", rec.ExerciseMove)
	setColumn("function_target_muscles", rec.FunctionTargetMuscles)
	setColumn("strengthen", rec.Strengthen)
	setColumn("stretch", rec.Stretch)
	setColumn("cues", rec.Cues)
	setColumn("modifications", rec.Modifications)
	setColumn("contraindications", rec.Contraindications)
	setColumn("peel_backs", rec.PeelBacks)
	setColumn("repetitions", rec.Repetitions)
	setColumn("image_url", rec.ImageURL)
	setColumn("video_url", rec.VideoURL)
	setColumn("series", rec.Series)
	return updates
}

func (rec Record) toExercise(id string) Exercise {
	return Exercise{
		ID:                    id,
		Name:                  rec.Name,
		MachineType:           rec.MachineType,
		Level:                 rec.Level,
		Order:                 rec.Order,
		Page:                  rec.Page,
		MachineSetup:          rec.MachineSetup,
		ExerciseMove:          rec.ExerciseMove,
		FunctionTargetMuscles: rec.FunctionTargetMuscles,
		Strengthen:            rec.Strengthen,
		Stretch:               rec.Stretch,
		Cues:                  rec.Cues,
		Modifications:         rec.Modifications,
		Contraindications:     rec.Contraindications,
		PeelBacks:             rec.PeelBacks,
		Repetitions:           rec.Repetitions,
		ImageURL:              rec.ImageURL,
		VideoURL:              rec.VideoURL,
		Series:                rec.Series,
	}
}

// reconcile ensures the store holds exactly one record for the incoming
// row's (name, machine type) key. An absent machine type only matches a
// stored NULL, so the same name on another apparatus never collides.
// Calling this repeatedly with identical input changes nothing.
func (s *Service) reconcile(ctx context.Context, rec Record) error {
	query := s.db.WithContext(ctx).Where("name = ?", rec.Name)
	if rec.MachineType == nil {
		query = query.Where("machine_type IS NULL")
	} else {
		query = query.Where("machine_type = ?", *rec.MachineType)
	}

	var existing Exercise
	err := query.Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		id, idErr := s.idProvider.NewID()
		if idErr != nil {
			return idErr
		}
		exercise := rec.toExercise(id)
		exercise.CreatedAt = s.clock().UTC()
		exercise.UpdatedAt = exercise.CreatedAt
		return s.db.WithContext(ctx).Create(&exercise).Error
	}
	if err != nil {
		return err
	}

	updates := rec.fieldUpdates()
	updates["updated_at"] = s.clock().UTC()
	return s.db.WithContext(ctx).
		Model(&Exercise{}).
		Where("id = ?", existing.ID).
		Updates(updates).Error
}
