// Package e2e runs the full pipeline over a populated document store.
package e2e

import (
	"fmt"

	"github.com/ragmill/ragmill/internal/models"
)

// CorpusDocument is one entry in the e2e knowledge base. Contents are unique
// across the corpus so exact-text queries identify exactly one document.
type CorpusDocument struct {
	Name    string
	Content string
}

// QueryCase pairs a query with the document that must come back first.
// Queries use the exact text of the expected document: the deterministic
// test embedder maps identical strings to identical vectors, so the
// expected chunk scores similarity 1 and must rank first.
type QueryCase struct {
	Query        string
	ExpectedName string
	Description  string
}

// Corpus holds the documents and query cases for e2e runs.
type Corpus struct {
	Documents []CorpusDocument
	Queries   []QueryCase
}

// BuildCorpus returns 100 short knowledge-base notes and a query case for
// every other note. Every note fits in a single chunk at the default chunk
// size so its stored chunk text equals its content.
func BuildCorpus() *Corpus {
	docs := buildDocuments()
	return &Corpus{
		Documents: docs,
		Queries:   buildQueryCases(docs),
	}
}

func buildDocuments() []CorpusDocument {
	return []CorpusDocument{
		{"python-overview.md", "Python is a high level language with a large standard library. Teams use Python for web services, data pipelines, and scripting."},
		{"kubernetes-basics.md", "Kubernetes schedules containers across a cluster of nodes. Deployments and services describe the desired state declaratively."},
		{"react-components.md", "React builds user interfaces from composable components. Hooks manage state and side effects inside function components."},
		{"go-concurrency.md", "Go expresses concurrency with goroutines and channels. The scheduler multiplexes goroutines onto operating system threads."},
		{"postgresql-notes.md", "PostgreSQL is a relational database with strong SQL compliance. It supports JSON columns, window functions, and full text search."},
		{"docker-images.md", "Docker packages applications into portable container images. Layered builds cache unchanged steps to speed up rebuilds."},
		{"machine-learning-intro.md", "Machine learning fits models to patterns found in training data. Supervised methods learn from labeled examples."},
		{"neural-networks.md", "Neural networks stack layers of weighted connections. Backpropagation adjusts the weights to reduce prediction error."},
		{"rest-api-design.md", "REST APIs model resources addressed by URLs. HTTP verbs and status codes carry the operation semantics."},
		{"graphql-overview.md", "GraphQL lets clients declare exactly the fields they need. A single endpoint serves queries validated against a schema."},
		{"typescript-types.md", "TypeScript layers static types over JavaScript. The compiler catches many errors before the code ever runs."},
		{"redis-caching.md", "Redis keeps data structures in memory for microsecond reads. It is commonly used for sessions, queues, and caches."},
		{"elasticsearch-guide.md", "Elasticsearch indexes documents for full text search at scale. Shards and replicas spread the load across nodes."},
		{"aws-lambda-notes.md", "AWS Lambda runs functions without provisioning servers. Billing is per invocation and execution time."},
		{"terraform-basics.md", "Terraform declares cloud infrastructure in configuration files. Plans preview changes before they are applied."},
		{"prometheus-metrics.md", "Prometheus scrapes time series metrics from instrumented services. PromQL aggregates and alerts on the collected data."},
		{"grpc-services.md", "gRPC defines services with protocol buffer schemas. HTTP/2 multiplexing keeps many calls on one connection."},
		{"oauth-flows.md", "OAuth 2.0 delegates access without sharing passwords. The authorization code flow is the standard for web apps."},
		{"jwt-tokens.md", "JSON web tokens carry signed claims between parties. Verification needs only the issuer's public key."},
		{"cicd-pipelines.md", "Continuous integration runs tests on every commit. Delivery pipelines promote builds through staging to production."},
		{"git-workflow.md", "Git tracks source history as a graph of commits. Branches are cheap pointers that enable parallel work."},
		{"sql-basics.md", "SQL expresses queries over relational tables. SELECT, INSERT, UPDATE, and DELETE cover the core operations."},
		{"microservices-notes.md", "Microservices split a system into independently deployable parts. Each service owns its data and its release cadence."},
		{"kafka-streaming.md", "Apache Kafka stores streams of events in partitioned logs. Consumer groups scale processing horizontally."},
		{"nginx-proxy.md", "Nginx terminates TLS and proxies requests to upstreams. It also serves static files and balances load."},
		{"oop-principles.md", "Object oriented design groups state and behavior into objects. Encapsulation hides internals behind stable interfaces."},
		{"functional-style.md", "Functional programming favors pure functions and immutable data. Composition replaces stateful control flow."},
		{"design-patterns.md", "Design patterns name recurring solutions to design problems. Factory and observer appear in most large codebases."},
		{"api-versioning.md", "API versioning preserves compatibility for existing clients. Versions can live in the URL or in request headers."},
		{"db-indexing.md", "Database indexes trade write cost for fast lookups. A missing index turns point queries into table scans."},
		{"crypto-basics.md", "Cryptography protects data confidentiality and integrity. Symmetric ciphers encrypt bulk data under a shared key."},
		{"tls-certificates.md", "TLS certificates bind hostnames to public keys. Browsers verify the chain up to a trusted root."},
		{"load-balancing.md", "Load balancers spread requests across healthy backends. Health checks remove failing instances from rotation."},
		{"cache-invalidation.md", "Caches serve stale data unless invalidation is designed early. Time based expiry is the simplest correct policy."},
		{"event-sourcing.md", "Event sourcing stores every state change as an immutable event. Rebuilding state means replaying the event log."},
		{"ddd-aggregates.md", "Domain driven design models software around the business domain. Aggregates guard invariants inside consistency boundaries."},
		{"agile-sprints.md", "Scrum organizes work into fixed length sprints. A review and retrospective close out every iteration."},
		{"unit-testing.md", "Unit tests verify one unit of behavior in isolation. Fakes and stubs stand in for slow dependencies."},
		{"integration-testing.md", "Integration tests exercise several components together. They catch wiring mistakes unit tests cannot see."},
		{"dependency-injection.md", "Dependency injection passes collaborators in from outside. Constructors that accept interfaces keep code testable."},
		{"semantic-search.md", "Semantic search matches meaning instead of literal terms. Embedding vectors place related text near each other."},
		{"keyword-search.md", "Keyword search matches query terms against an inverted index. Scoring weighs term frequency against document length."},
		{"hybrid-retrieval.md", "Hybrid retrieval fuses keyword and vector rankings. Reciprocal rank fusion is a simple robust combiner."},
		{"vector-stores.md", "Vector stores index embeddings for nearest neighbor search. Cosine similarity is the usual distance for text."},
		{"embedding-models.md", "Embedding models map text into dense vectors. Sentence level models capture meaning beyond single words."},
		{"chunking-overlap.md", "Chunking splits long documents into bounded windows. Overlap keeps sentences that straddle a boundary intact."},
		{"rag-pipelines.md", "Retrieval augmented generation grounds model answers in stored documents. Retrieved chunks are injected into the prompt."},
		{"fine-tuning.md", "Fine tuning adapts a pretrained model to a narrow task. It needs labeled data and careful evaluation."},
		{"prompt-patterns.md", "Prompt engineering shapes model behavior with instructions. Few shot examples anchor the expected format."},
		{"openapi-specs.md", "OpenAPI documents REST endpoints in machine readable form. Generated clients stay in sync with the contract."},
		{"websockets.md", "WebSockets keep a bidirectional connection open. They push live updates without request polling."},
		{"message-queues.md", "Message queues decouple producers from consumers. Asynchronous handoff smooths out traffic spikes."},
		{"rate-limiting.md", "Rate limiting protects services from abusive traffic. Token buckets allow short bursts within a budget."},
		{"circuit-breakers.md", "Circuit breakers stop calls to a failing dependency. Failing fast prevents cascading outages."},
		{"feature-flags.md", "Feature flags toggle behavior without redeploying. Gradual rollouts limit the blast radius of changes."},
		{"ab-testing.md", "A/B tests compare variants on live traffic. Statistical significance separates signal from noise."},
		{"structured-logging.md", "Structured logs emit key value fields instead of prose. Machines can filter and aggregate them reliably."},
		{"distributed-tracing.md", "Distributed tracing follows one request across services. Spans expose where the latency actually goes."},
		{"cors-headers.md", "CORS headers control which origins may call an API. Preflight requests check permissions before the real call."},
		{"input-validation.md", "Input validation rejects malformed data at the boundary. Sanitization prevents injection into queries and markup."},
		{"password-hashing.md", "Passwords are stored as salted adaptive hashes. bcrypt and argon2 resist brute force and rainbow tables."},
		{"rbac-model.md", "Role based access control grants permissions through roles. Auditing membership is simpler than auditing users."},
		{"audit-logs.md", "Audit logs record who did what and when. Regulated industries require tamper evident retention."},
		{"backup-recovery.md", "Backups protect against data loss and operator error. Recovery objectives define how much loss is tolerable."},
		{"disaster-recovery.md", "Disaster recovery plans rehearse failover to another region. Runbooks turn a crisis into a checklist."},
		{"horizontal-scaling.md", "Horizontal scaling adds nodes instead of bigger machines. Sharding partitions data across the fleet."},
		{"vertical-scaling.md", "Vertical scaling adds CPU and memory to one machine. It is simple but hits a hard ceiling."},
		{"cloud-costs.md", "Cloud costs grow silently without ownership. Reserved capacity and spot instances cut the bill."},
		{"green-computing.md", "Green computing reduces the energy footprint of software. Efficient code is also cheaper code."},
		{"accessibility-wcag.md", "Accessibility makes interfaces usable by everyone. WCAG guidelines cover contrast, focus, and semantics."},
		{"i18n-locales.md", "Internationalization externalizes strings and formats. Locales drive dates, numbers, and pluralization."},
		{"responsive-design.md", "Mobile first design starts from the smallest screen. Layouts adapt upward as the viewport grows."},
		{"pwa-offline.md", "Progressive web apps work offline through service workers. Cached shells make launches instant."},
		{"ssr-rendering.md", "Server side rendering returns complete HTML pages. Crawlers and slow devices benefit most."},
		{"static-sites.md", "Static site generation renders pages at build time. Serving files from a CDN is fast and cheap."},
		{"edge-computing.md", "Edge computing runs code close to the user. Shorter round trips cut tail latency."},
		{"cold-starts.md", "Serverless cold starts delay the first invocation. Provisioned concurrency keeps instances warm."},
		{"graph-databases.md", "Graph databases store nodes and edges natively. Traversals express relationship queries directly."},
		{"timeseries-db.md", "Time series databases optimize for append heavy metrics. Retention policies downsample old data."},
		{"document-stores.md", "Document stores keep flexible schema records. Embedded documents avoid joins for read heavy paths."},
		{"keyvalue-stores.md", "Key value stores offer constant time reads by key. They back caches, sessions, and feature lookups."},
		{"cap-theorem.md", "The CAP theorem forces a choice during partitions. A system keeps consistency or availability, not both."},
		{"acid-transactions.md", "ACID transactions make multi step writes atomic. Isolation levels trade anomalies for throughput."},
		{"eventual-consistency.md", "Eventually consistent replicas converge after updates stop. Readers may observe stale values meanwhile."},
		{"crdt-replication.md", "CRDTs merge concurrent updates without coordination. Replicas converge regardless of delivery order."},
		{"zero-trust.md", "Zero trust assumes the network is already hostile. Every request authenticates and authorizes explicitly."},
		{"defense-in-depth.md", "Defense in depth layers independent security controls. A single bypass should never be enough."},
		{"pentest-basics.md", "Penetration tests simulate real attacks on running systems. Findings feed directly into the fix backlog."},
		{"code-review.md", "Code review catches defects before they merge. Small focused pull requests get better feedback."},
		{"api-docs.md", "Good documentation is the product's front door. Examples that can be pasted and run beat prose."},
		{"onboarding-notes.md", "Onboarding guides compress weeks of tribal knowledge. A new hire should ship something in the first week."},
		{"incident-response.md", "Incident response needs clear roles and a channel. The runbook tells the responder the next step."},
		{"postmortems.md", "Blameless postmortems examine systems, not people. Action items must have owners and dates."},
		{"slo-budgets.md", "Service level objectives set a reliability target. The error budget decides when to slow releases."},
		{"chaos-engineering.md", "Chaos engineering injects faults on purpose. Surviving staged failure builds confidence for real ones."},
		{"blue-green.md", "Blue green deployment keeps two production environments. Switching traffic back is the rollback."},
		{"canary-releases.md", "Canary releases expose changes to a small slice first. Metrics gate the progressive rollout."},
		{"trunk-development.md", "Trunk based development keeps main always releasable. Short lived branches merge within a day."},
		{"refactoring-notes.md", "Refactoring improves structure without changing behavior. Tests are the safety net that makes it routine."},
		{"tech-debt.md", "Technical debt accrues interest as velocity loss. Paying it down needs dedicated, scheduled effort."},
	}
}

func buildQueryCases(docs []CorpusDocument) []QueryCase {
	var cases []QueryCase
	for i := 0; i < len(docs); i += 2 {
		d := docs[i]
		cases = append(cases, QueryCase{
			Query:        d.Content,
			ExpectedName: d.Name,
			Description:  fmt.Sprintf("retrieves %s", d.Name),
		})
	}
	return cases
}

// ToIngestInputs converts the corpus documents into ingestion inputs.
func (c *Corpus) ToIngestInputs() []*models.IngestInput {
	out := make([]*models.IngestInput, len(c.Documents))
	for i, d := range c.Documents {
		out[i] = &models.IngestInput{
			Name: d.Name,
			Text: d.Content,
		}
	}
	return out
}
