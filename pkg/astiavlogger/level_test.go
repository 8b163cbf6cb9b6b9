package astiavlogger

import (
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/stretchr/testify/assert"
)

func TestLevelRoundTrip(t *testing.T) {
	for _, level := range []logger.Level{
		logger.LevelUndefined,
		logger.LevelPanic,
		logger.LevelFatal,
		logger.LevelError,
		logger.LevelWarning,
		logger.LevelInfo,
		logger.LevelDebug,
		logger.LevelTrace,
	} {
		assert.Equal(t, level, LevelFromAstiav(LevelToAstiav(level)), level.String())
	}
}

func TestLevelFromAstiavUnknown(t *testing.T) {
	assert.Equal(t, logger.LevelWarning, LevelFromAstiav(astiav.LogLevel(12345)))
}

func TestClassCategoryToString(t *testing.T) {
	assert.Equal(t, "Encoder", ClassCategoryToString(astiav.ClassCategoryEncoder))
	assert.Equal(t, "Demuxer", ClassCategoryToString(astiav.ClassCategoryDemuxer))
	assert.Equal(t, "unexpected_class_category_9999", ClassCategoryToString(astiav.ClassCategory(9999)))
}
