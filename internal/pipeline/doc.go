// Package pipeline converts a clicked image into the requested format and
// hands it to the download manager.
//
// A conversion is a fixed sequence of steps run against one
// model.Conversion:
//
//	settings -> resolve -> filename -> fetch -> metadata -> decode -> encode -> dataurl -> download
//
// The first failing step stops the pipeline. Service.SaveWithCustomExtension
// is the entry point used by the context menu; it logs failures and never
// returns them, since there is no surface to report them on.
//
// BatchProcessor dispatches independent jobs concurrently using errgroup,
// normally as clicks on the context menu, and collects the conversions the
// service hands back with Report. Every conversion builds its own pipeline
// and reads its own settings snapshot, so conversions share no mutable
// state.
package pipeline
