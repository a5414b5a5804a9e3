// Package agents loads the role roster that labels each pipeline stage.
//
// A roster is a YAML document keyed by stage (downloader, transcriber,
// url_detector, website_analyzer, report_generator) with role, goal and
// backstory text. The text is printed and logged when a stage starts; nothing
// in the pipeline branches on it.
package agents
