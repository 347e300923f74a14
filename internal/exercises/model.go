package exercises

import "time"

// Exercise is the canonical catalog record. Name is the only required
// attribute; everything else arrives optionally from the spreadsheet and is
// carried through unmodified. The (Name, MachineType) pair is the natural
// key — the same movement on a different apparatus is a different exercise.
type Exercise struct {
	ID                    string    `gorm:"column:id;primaryKey;size:190;not null" json:"id"`
	Name                  string    `gorm:"column:name;size:320;not null;index:idx_exercises_name_machine,priority:1" json:"name"`
	MachineType           *string   `gorm:"column:machine_type;size:190;index:idx_exercises_name_machine,priority:2" json:"machine_type,omitempty"`
	Level                 *string   `gorm:"column:level;size:64" json:"level,omitempty"`
	Order                 int       `gorm:"column:display_order;not null;default:0" json:"order"`
	Page                  *string   `gorm:"column:page;size:64" json:"page,omitempty"`
	MachineSetup          *string   `gorm:"column:machine_setup;type:text" json:"machine_setup,omitempty"`
	ExerciseMove          *string   `gorm:"column:exercise_move;type:text" json:"exercise_move,omitempty"`
	FunctionTargetMuscles *string   `gorm:"column:function_target_muscles;type:text" json:"function_target_muscles,omitempty"`
	Strengthen            *string   `gorm:"column:strengthen;type:text" json:"strengthen,omitempty"`
	Stretch               *string   `gorm:"column:stretch;type:text" json:"stretch,omitempty"`
	Cues                  *string   `gorm:"column:cues;type:text" json:"cues,omitempty"`
	Modifications         *string   `gorm:"column:modifications;type:text" json:"modifications,omitempty"`
	Contraindications     *string   `gorm:"column:contraindications;type:text" json:"contraindications,omitempty"`
	PeelBacks             *string   `gorm:"column:peel_backs;type:text" json:"peel_backs,omitempty"`
	Repetitions           *string   `gorm:"column:repetitions;size:190" json:"repetitions,omitempty"`
	ImageURL              *string   `gorm:"column:image_url;size:512" json:"image_url,omitempty"`
	VideoURL              *string   `gorm:"column:video_url;size:512" json:"video_url,omitempty"`
	Series                *string   `gorm:"column:series;type:text" json:"series,omitempty"`
	CreatedAt             time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName provides the explicit table binding for GORM.
func (Exercise) TableName() string {
	return "exercises"
}

// Record is one mapped spreadsheet row: a partial exercise. A nil field
// means the cell was missing or empty, which is distinct from an empty
// string — absent fields never overwrite stored values on reconciliation.
type Record struct {
	Name                  string
	Order                 int
	MachineType           *string
	Level                 *string
	Page                  *string
	MachineSetup          *string
	ExerciseMove          *string
	FunctionTargetMuscles *string
	Strengthen            *string
	Stretch               *string
	Cues                  *string
	Modifications         *string
	Contraindications     *string
	PeelBacks             *string
	Repetitions           *string
	ImageURL              *string
	VideoURL              *string
	Series                *string
}
