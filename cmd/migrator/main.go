package main

import (
	"os"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/pflag"

	"github.com/afel-project/traces2rdf/internal/util"
	"github.com/afel-project/traces2rdf/pkg/learners"
	"github.com/afel-project/traces2rdf/pkg/logger"
	"github.com/afel-project/traces2rdf/pkg/logger/console"
	"github.com/afel-project/traces2rdf/pkg/rdf"
	"github.com/afel-project/traces2rdf/pkg/traces/afelapp"
	"github.com/afel-project/traces2rdf/pkg/traces/didactalia"
	"github.com/afel-project/traces2rdf/pkg/traces/questionnaire"
	"github.com/afel-project/traces2rdf/pkg/vocab"
)

type options struct {
	userMapping      string
	didactaliaTraces string
	afelAppTraces    string
	appQuestions     string
	appAnswers       string
	knowledgeDir     string
	output           string
	debug            bool
}

func parseOptions() options {
	util.LoadEnv()

	var opts options
	pflag.StringVar(&opts.userMapping, "user-mapping",
		util.GetEnv("TRACES2RDF_USER_MAPPING"), "CSV mapping of learner emails to platform user ids (required)")
	pflag.StringVar(&opts.didactaliaTraces, "didactalia-traces",
		util.GetEnv("TRACES2RDF_DIDACTALIA_TRACES"), "JSON dump of the didactalia browsing and game traces")
	pflag.StringVar(&opts.afelAppTraces, "afelapp-traces",
		util.GetEnv("TRACES2RDF_AFELAPP_TRACES"), "JSON dump of the AFEL App traces")
	pflag.StringVar(&opts.appQuestions, "app-questions",
		util.GetEnv("TRACES2RDF_APP_QUESTIONS"), "JSON file with the app questionnaire question texts")
	pflag.StringVar(&opts.appAnswers, "app-answers",
		util.GetEnv("TRACES2RDF_APP_ANSWERS"), "CSV sheet with the app questionnaire answers")
	pflag.StringVar(&opts.knowledgeDir, "knowledge-dir",
		util.GetEnv("TRACES2RDF_KNOWLEDGE_DIR"), "directory with the knowledge questionnaire CSV sheets")
	pflag.StringVar(&opts.output, "output",
		util.GetEnvString("TRACES2RDF_OUTPUT", "traces.nt"), "destination file for the generated graph")
	pflag.BoolVar(&opts.debug, "debug",
		util.GetEnvBool("TRACES2RDF_DEBUG", false), "enable debug logging")
	pflag.Parse()

	return opts
}

// checkInputs verifies every requested input before any processing starts, so
// a long run never dies halfway through on a typo.
func checkInputs(opts options) {
	if opts.userMapping == "" {
		logger.Fatal("The --user-mapping file is required")
	}

	paths := []string{opts.userMapping, opts.didactaliaTraces, opts.afelAppTraces, opts.appQuestions, opts.appAnswers}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			logger.Fatal("Input file is not readable", "path", path, "error", err)
		}
	}

	if (opts.appQuestions == "") != (opts.appAnswers == "") {
		logger.Fatal("--app-questions and --app-answers must be provided together")
	}

	if opts.knowledgeDir != "" {
		info, err := os.Stat(opts.knowledgeDir)
		if err != nil || !info.IsDir() {
			logger.Fatal("The --knowledge-dir path is not a directory", "path", opts.knowledgeDir)
		}
	}
}

func main() {
	opts := parseOptions()
	logger.Init(console.NewConsoleLogger(console.ConsoleLoggerParams{Debug: opts.debug}))
	checkInputs(opts)

	runID, err := gonanoid.New()
	if err != nil {
		logger.Fatal("Cannot generate a run id", "error", err)
	}
	logger.Info("Starting trace migration", "run", runID)

	ns := vocab.Default()
	graph := rdf.NewGraph()
	watch := rdf.NewDuplicateWatch(rdf.NewDuplicateWatchParams{
		Next: graph,
		AllowedSubjectPrefixes: []string{
			string(ns.AFEL.Term("Artifact")) + "#",
			string(ns.Ext.Term("Questionnaire")) + "#",
			string(ns.Schema.Term("Question")) + "#",
		},
	})

	registry := learners.NewRegistry()
	withInput(opts.userMapping, func(f *os.File) {
		if err := registry.Load(f, learners.LoadParams{HasHeader: true}); err != nil {
			logger.Fatal("Cannot load the identity mapping", "error", err)
		}
	})
	n := registry.Dump(ns, watch)
	logger.Info("Learners mapped", "count", registry.Len(), "triples", n)

	if opts.didactaliaTraces != "" {
		withInput(opts.didactaliaTraces, func(f *os.File) {
			n, err := didactalia.NewParser().LoadAndDump(f, registry, ns, watch)
			if err != nil {
				logger.Fatal("Cannot process the didactalia traces", "error", err)
			}
			logger.Info("Didactalia traces mapped", "triples", n)
		})
	}

	if opts.afelAppTraces != "" {
		withInput(opts.afelAppTraces, func(f *os.File) {
			n, err := afelapp.NewParser().LoadAndDump(f, registry, ns, watch)
			if err != nil {
				logger.Fatal("Cannot process the AFEL App traces", "error", err)
			}
			logger.Info("AFEL App traces mapped", "triples", n)
		})
	}

	if opts.appQuestions != "" {
		withInput(opts.appQuestions, func(details *os.File) {
			withInput(opts.appAnswers, func(answers *os.File) {
				n, err := questionnaire.NewAppParser().LoadAndDump(details, answers, registry, ns, watch)
				if err != nil {
					logger.Fatal("Cannot process the app questionnaire", "error", err)
				}
				logger.Info("App questionnaire mapped", "triples", n)
			})
		})
	}

	if opts.knowledgeDir != "" {
		n, err := questionnaire.LoadAndDumpAll(opts.knowledgeDir, registry, ns, watch)
		if err != nil {
			logger.Fatal("Cannot process the knowledge questionnaires", "error", err)
		}
		logger.Info("Knowledge questionnaires mapped", "triples", n)
	}

	out, err := os.Create(opts.output)
	if err != nil {
		logger.Fatal("Cannot create the destination file", "path", opts.output, "error", err)
	}
	writer := rdf.NewNTriplesWriter(rdf.NewNTriplesWriterParams{Destination: out})
	if err := writer.WriteGraph(graph); err != nil {
		logger.Fatal("Cannot write the graph", "path", opts.output, "error", err)
	}
	if err := out.Close(); err != nil {
		logger.Fatal("Cannot close the destination file", "path", opts.output, "error", err)
	}

	stats := watch.Stats()
	logger.Info("Trace migration finished",
		"run", runID,
		"destination", opts.output,
		"triples", graph.Len(),
		"attempted", stats.Attempted,
		"duplicates", stats.Duplicates,
		"unexpectedDuplicates", stats.Warned,
	)
}

func withInput(path string, fn func(f *os.File)) {
	f, err := os.Open(path)
	if err != nil {
		logger.Fatal("Cannot open input file", "path", path, "error", err)
	}
	defer f.Close()
	fn(f)
}
