package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// JavaVersion is a source or compliance level. Java 8 and earlier are
// numbered by their minor version (1.8 is 8).
type JavaVersion int

const (
	Java8  JavaVersion = 8
	Java9  JavaVersion = 9
	Java10 JavaVersion = 10
	Java11 JavaVersion = 11
	Java14 JavaVersion = 14
	Java15 JavaVersion = 15
	Java16 JavaVersion = 16
	Java17 JavaVersion = 17
	Java21 JavaVersion = 21
	Java22 JavaVersion = 22
	Java23 JavaVersion = 23

	LatestJava = Java23
)

var ErrUnknownVersion = errors.New("unknown Java version")

// ParseJavaVersion accepts "1.8", "8", "17" and similar.
func ParseJavaVersion(s string) (JavaVersion, error) {
	v := strings.TrimPrefix(strings.TrimSpace(s), "1.")
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > int(LatestJava) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownVersion, s)
	}
	return JavaVersion(n), nil
}

func (v JavaVersion) String() string {
	if v <= Java8 {
		return "1." + strconv.Itoa(int(v))
	}
	return strconv.Itoa(int(v))
}

// Options are the compiler settings that influence parsing.
type Options struct {
	Source        JavaVersion
	Compliance    JavaVersion
	Target        JavaVersion
	EnablePreview bool
	// FoldLiterals folds chains of string and char literals joined by +
	// into one literal. When false they become a concatenation node.
	FoldLiterals bool
}

func DefaultOptions() Options {
	return Options{
		Source:       LatestJava,
		Compliance:   LatestJava,
		Target:       LatestJava,
		FoldLiterals: true,
	}
}

// Feature is a language construct introduced at a given source level.
type Feature int

const (
	FeatureModules Feature = iota
	FeatureVar
	FeatureSwitchExpressions
	FeatureTextBlocks
	FeatureRecords
	FeaturePatternInstanceof
	FeatureSealedTypes
	FeatureRecordPatterns
	FeaturePatternSwitch
	FeatureUnnamedVariables
	FeatureStringTemplates
	FeatureYield
)

type featureInfo struct {
	name    string
	since   JavaVersion // 0 while the feature is preview only
	preview JavaVersion // first level offering the preview
}

var features = map[Feature]featureInfo{
	FeatureModules:           {"Modules", Java9, 0},
	FeatureVar:               {"'var' local variable type", Java10, 0},
	FeatureSwitchExpressions: {"Switch Expressions", Java14, 0},
	FeatureYield:             {"Yield Statement", Java14, 0},
	FeatureTextBlocks:        {"Text Blocks", Java15, 0},
	FeatureRecords:           {"Records", Java16, 0},
	FeaturePatternInstanceof: {"Pattern Matching in instanceof Expressions", Java16, 0},
	FeatureSealedTypes:       {"Sealed Types", Java17, 0},
	FeatureRecordPatterns:    {"Record Patterns", Java21, 0},
	FeaturePatternSwitch:     {"Pattern Matching in Switch", Java21, 0},
	FeatureUnnamedVariables:  {"Unnamed Variables and Patterns", Java22, Java21},
	FeatureStringTemplates:   {"String Template", 0, Java21},
}

func (f Feature) String() string {
	return features[f].name
}

// Since is the first source level supporting f without preview, or 0.
func (f Feature) Since() JavaVersion {
	return features[f].since
}

type featureVerdict int

const (
	featureAllowed featureVerdict = iota
	featureTooOld
	featurePreviewDisabled
	featurePreviewUsed
)

// check decides how a use of f at the configured level is reported.
func (o Options) check(f Feature) (featureVerdict, JavaVersion) {
	info := features[f]
	if info.since != 0 && o.Source >= info.since {
		return featureAllowed, 0
	}
	if info.preview != 0 && o.Source >= info.preview {
		if o.EnablePreview {
			return featurePreviewUsed, 0
		}
		return featurePreviewDisabled, 0
	}
	if info.since == 0 {
		return featureTooOld, info.preview
	}
	return featureTooOld, info.since
}
