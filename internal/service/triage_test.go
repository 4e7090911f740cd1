package service

import (
	"testing"

	"city-pet-go/internal/config"
	"city-pet-go/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestTriageClassifier_Classify(t *testing.T) {
	classifier := NewTriageClassifier(config.TriageConfig{})

	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"critical keyword", "My dog is not breathing!", model.EmergencyCritical},
		{"critical phrase", "he got hit by a car just now", model.EmergencyCritical},
		{"urgent keyword", "my cat has a broken bone", model.EmergencyUrgent},
		{"moderate keyword", "puppy keeps vomiting since morning", model.EmergencyModerate},
		{"no keyword", "what are your opening hours?", model.EmergencyNone},
		{"empty message", "", model.EmergencyNone},
		{"case insensitive", "MY DOG IS UNCONSCIOUS", model.EmergencyCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.message))
		})
	}
}

// 同时命中多个档位时，critical 必须压过 urgent 与 moderate。
func TestTriageClassifier_CriticalWinsOverLowerLevels(t *testing.T) {
	classifier := NewTriageClassifier(config.TriageConfig{})

	msg := "my dog is vomiting and bleeding heavily after a seizure"
	assert.Equal(t, model.EmergencyCritical, classifier.Classify(msg))

	msg = "she is limping and her leg looks like a broken bone"
	assert.Equal(t, model.EmergencyUrgent, classifier.Classify(msg))
}

// 不做否定识别："not bleeding" 仍按 urgent 处理，宁可误报。
func TestTriageClassifier_NegationStillMatches(t *testing.T) {
	classifier := NewTriageClassifier(config.TriageConfig{})
	assert.Equal(t, model.EmergencyUrgent, classifier.Classify("he is not bleeding anymore"))
}

func TestTriageClassifier_Deterministic(t *testing.T) {
	classifier := NewTriageClassifier(config.TriageConfig{})
	msg := "cat swallowed poison"
	first := classifier.Classify(msg)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, classifier.Classify(msg))
	}
}

func TestTriageClassifier_CustomKeywords(t *testing.T) {
	classifier := NewTriageClassifier(config.TriageConfig{
		CriticalKeywords: []string{"Code Red"},
		UrgentKeywords:   []string{"code orange"},
		ModerateKeywords: []string{"code yellow"},
	})

	assert.Equal(t, model.EmergencyCritical, classifier.Classify("this is a code red situation"))
	assert.Equal(t, model.EmergencyUrgent, classifier.Classify("CODE ORANGE please"))
	assert.Equal(t, model.EmergencyModerate, classifier.Classify("just a code yellow"))
	// 自定义词表替换内置词表，内置词不再命中
	assert.Equal(t, model.EmergencyNone, classifier.Classify("my dog is not breathing"))
}
