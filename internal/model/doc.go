// Package model defines the data shared by the settings store, the
// preferences form, the context menu and the conversion pipeline.
//
// This package contains the following main types:
//   - SettingsRecord and SettingsPatch: the user preferences and partial updates
//   - FormatDescriptor: one entry of the fixed output format registry
//   - MenuNode and ClickInfo: context-menu items and clicks on them
//   - Conversion: the state of one "save as" request as it moves through
//     the pipeline
//   - DownloadRecord: one entry of the download history
//
// Coercion rules live next to the types: ClampQuality, ParseQuality,
// SanitizeExtension, ResolveExtension and DeriveFileName never fail and
// always return a usable value.
package model
