// Package importers provides the shared conversion pipeline for every archive source.
//
// # Architecture
//
// The pipeline follows a simple flow:
//
//	Source File → Reader → Converter → RawMessage → Pipeline → entities.Conversation → Exporter → storage.Client
//
// Message-level sources (SMS/MMS backups) implement the Converter interface and
// let the Pipeline group messages into conversations. Sources that already
// provide one record per conversation (chat exports) call
// Pipeline.ImportConversations directly.
//
// Whatever the entry point, the Pipeline then:
//
//  1. drops conversations without messages,
//  2. sorts each conversation's messages with a stable timestamp sort,
//  3. hands the result to the configured Exporter.
//
// # Adding a New Source
//
//  1. Create a package that decodes the raw format (see smsbackup).
//
//  2. Implement the Converter interface:
//
//     func (c *MyConverter) Convert() ([]importers.RawMessage, importers.Source) {
//     // one RawMessage per message, GroupKey identifies the conversation
//     }
//
//     var _ importers.Converter = (*MyConverter)(nil)
//
//  3. Run it through a pipeline:
//
//     pipeline := importers.NewPipeline(exporters.NewTranscriptExporter(sink, exporters.StylePlain))
//     result, err := pipeline.Import(ctx, converter)
package importers
