// Package main hosts the feedsanity digest generator.
//
// Architecture overview:
//   - CLI: cobra commands (run, classify, serve, init) over a viper-backed config layer. The root command builds the
//     application container (internal/server) once per invocation and injects it into the command context.
//   - Dispatcher & queue: feed URLs flow through a bounded in-memory queue and are fanned out to a fixed worker pool
//     sized by config feeds.concurrency. Context cancellation stops workers cleanly on shutdown.
//   - Classification: each feed resolves to comic/news and to a language through a fixed chain: manual override file,
//     built-in domain table, persistent JSON cache, AI detection, default. AI results are cached; overrides never are.
//   - Comics path: the strip entry is selected, per-site extractors (with a generic <img> fallback) find the image
//     URLs, and images land in the dated output folder next to the digest page.
//   - News path: article pages are fetched (optionally promoted to a headless Chromedp render for script-heavy
//     sites), reduced via readability extraction, cleaned, and summarized in the feed's language by the configured
//     AI provider. Provider failures degrade to truncated article text rather than failing the feed.
//   - Output & fanout: the digest renders to a single dated HTML page on the configured blob store (local/memory/
//     GCS). A compact Pub/Sub announcement is published when a topic is configured. Progress events are buffered and
//     batched to log, Prometheus and run-store sinks.
//
// Operational notes:
//   - Concurrency model: bounded queue + fixed worker pool; headless renders have their own semaphore. Shutdown is
//     coordinated via context cancellation propagated from the CLI through the dispatcher to workers.
//   - Rate limiting/backoff: outbound fetches are rate limited per domain and retried with exponential backoff;
//     per-feed timeouts bound how long one slow site can hold a worker.
//   - Observability: zap logs carry feed URLs and run IDs at key transitions; Prometheus counters/histograms track
//     fetch and feed activity; the progress hub batches run lifecycle events for downstream sinks.
//   - Serving: feedsanity serve (or a configured listen address during run) exposes /healthz, /readyz, /metrics,
//     run snapshots under /v1/runs, and the generated digests as static files.
//
// Quick checklist:
//   - Scaffold a workspace: feedsanity init (writes config.yaml, rss.txt and the override files).
//   - Configure env vars when preferred: FEEDSANITY_AI_PROVIDER, FEEDSANITY_FEEDS_FILE, FEEDSANITY_OUTPUT_DIR,
//     FEEDSANITY_SERVER_LISTEN_ADDR, FEEDSANITY_EVENTS_TOPIC and friends.
//   - Run locally: feedsanity run --debug, then open output/YYYY-MM-DD/index.html.
package main
