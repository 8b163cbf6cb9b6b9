package astiavlogger

import (
	"fmt"

	"github.com/asticode/go-astiav"
)

var classCategoryNames = map[astiav.ClassCategory]string{
	astiav.ClassCategoryBitstreamFilter:   "BitstreamFilter",
	astiav.ClassCategoryDecoder:           "Decoder",
	astiav.ClassCategoryDemuxer:           "Demuxer",
	astiav.ClassCategoryDeviceAudioInput:  "DeviceAudioInput",
	astiav.ClassCategoryDeviceAudioOutput: "DeviceAudioOutput",
	astiav.ClassCategoryDeviceInput:       "DeviceInput",
	astiav.ClassCategoryDeviceOutput:      "DeviceOutput",
	astiav.ClassCategoryDeviceVideoInput:  "DeviceVideoInput",
	astiav.ClassCategoryDeviceVideoOutput: "DeviceVideoOutput",
	astiav.ClassCategoryEncoder:           "Encoder",
	astiav.ClassCategoryFilter:            "Filter",
	astiav.ClassCategoryInput:             "Input",
	astiav.ClassCategoryMuxer:             "Muxer",
	astiav.ClassCategoryNa:                "Na",
	astiav.ClassCategoryOutput:            "Output",
	astiav.ClassCategorySwresampler:       "Swresampler",
	astiav.ClassCategorySwscaler:          "Swscaler",
}

func ClassCategoryToString(cat astiav.ClassCategory) string {
	if name, ok := classCategoryNames[cat]; ok {
		return name
	}
	return fmt.Sprintf("unexpected_class_category_%d", cat)
}
