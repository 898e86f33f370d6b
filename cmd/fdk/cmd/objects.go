package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"fdk/internal/domain"
	"fdk/internal/group"
	"fdk/internal/search"
	"fdk/internal/service"

	"github.com/spf13/cobra"
)

var (
	// objects list flags
	objectsListDomain string
	objectsListQuery  string
	objectsListLimit  int
	objectsListOffset int

	// objects search flags
	objectsSearchFields []string
	objectsSearchDomain string
	objectsSearchMode   string
	objectsSearchCase   bool
	objectsSearchLimit  int

	// objects group flags
	objectsGroupBy    []string
	objectsGroupSort  string
	objectsGroupOrder string
	objectsGroupCount bool

	// objects properties flags
	objectsPropertiesLimit int

	// objects refs flags
	objectsRefsNetwork bool
	objectsRefsDepth   int
)

// objectsCmd represents the objects command
var objectsCmd = &cobra.Command{
	Use:   "objects",
	Short: "Browse and search catalog objects",
	Long: `List, inspect, search, and group objects from the catalog.

Reads are served from the local object cache when possible and fall
back to the live catalog otherwise.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// objectsListCmd lists catalog objects
var objectsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List catalog objects",
	Long: `List catalog objects, optionally filtered by domain or name.

Examples:
  fdk objects list
  fdk objects list --domain Bridges
  fdk objects list --query signal --limit 20`,
	RunE: runObjectsList,
}

// objectsGetCmd shows one object with full details
var objectsGetCmd = &cobra.Command{
	Use:   "get <object-id>",
	Short: "Show one object with full details",
	Long: `Fetch a single object with its property sets, relationships, and
classifications. A cached detail copy is served without a network
round trip; when the live fetch fails, a stale cached copy is served
instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runObjectsGet,
}

// objectsSearchCmd searches object fields
var objectsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search across object fields",
	Long: `Search the catalog for a text value.

Fields: all, name, domain, description, classifications, propertySets,
properties, relationships. Searching detail fields upgrades cached
summaries to detail objects first.

Examples:
  fdk objects search bridge
  fdk objects search "span width" --field properties
  fdk objects search OBJ_TUN --field relationships --mode starts_with`,
	Args: cobra.ExactArgs(1),
	RunE: runObjectsSearch,
}

// objectsGroupCmd organizes objects into buckets
var objectsGroupCmd = &cobra.Command{
	Use:   "group <object-id>...",
	Short: "Group objects by shared attributes",
	Long: `Organize a set of objects into nested buckets.

Group keys: domain, classification, propertySet, name.

Examples:
  fdk objects group OBJ_A OBJ_B OBJ_C --by domain
  fdk objects group OBJ_A OBJ_B --by domain --by classification --count`,
	Args: cobra.MinimumNArgs(1),
	RunE: runObjectsGroup,
}

// objectsDomainsCmd lists catalog domains
var objectsDomainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List catalog domains with object counts",
	RunE:  runObjectsDomains,
}

// objectsPropertiesCmd searches property names
var objectsPropertiesCmd = &cobra.Command{
	Use:   "properties <query>",
	Short: "Search property names across cached detail objects",
	Long: `Find properties whose name contains the query, case-insensitively.
Only objects cached with full details are searched.`,
	Args: cobra.ExactArgs(1),
	RunE: runObjectsProperties,
}

// objectsRefsCmd analyzes object references
var objectsRefsCmd = &cobra.Command{
	Use:   "refs <object-id>",
	Short: "Show incoming and outgoing object references",
	Long: `Analyze the relationships of one object: which objects it references
and which objects reference it.

With --network, walk the reference graph breadth-first up to --depth
hops and report every reachable object.`,
	Args: cobra.ExactArgs(1),
	RunE: runObjectsRefs,
}

func init() {
	rootCmd.AddCommand(objectsCmd)
	objectsCmd.AddCommand(objectsListCmd)
	objectsCmd.AddCommand(objectsGetCmd)
	objectsCmd.AddCommand(objectsSearchCmd)
	objectsCmd.AddCommand(objectsGroupCmd)
	objectsCmd.AddCommand(objectsDomainsCmd)
	objectsCmd.AddCommand(objectsPropertiesCmd)
	objectsCmd.AddCommand(objectsRefsCmd)

	objectsListCmd.Flags().StringVar(&objectsListDomain, "domain", "", "filter by domain")
	objectsListCmd.Flags().StringVarP(&objectsListQuery, "query", "q", "", "filter by name substring")
	objectsListCmd.Flags().IntVar(&objectsListLimit, "limit", 0, "maximum objects to return (0 = no limit)")
	objectsListCmd.Flags().IntVar(&objectsListOffset, "offset", 0, "objects to skip")

	objectsSearchCmd.Flags().StringSliceVar(&objectsSearchFields, "field", nil, "fields to search (repeatable, default all)")
	objectsSearchCmd.Flags().StringVar(&objectsSearchDomain, "domain", "", "restrict to one domain")
	objectsSearchCmd.Flags().StringVar(&objectsSearchMode, "mode", "", "match mode (contains, equals, starts_with, ends_with)")
	objectsSearchCmd.Flags().BoolVar(&objectsSearchCase, "case-sensitive", false, "match case-sensitively")
	objectsSearchCmd.Flags().IntVar(&objectsSearchLimit, "limit", 0, "maximum matches to return (0 = no limit)")

	objectsGroupCmd.Flags().StringSliceVar(&objectsGroupBy, "by", []string{"domain"}, "group keys, outermost first (repeatable)")
	objectsGroupCmd.Flags().StringVar(&objectsGroupSort, "sort", "", "sort objects inside buckets (name, id, domain)")
	objectsGroupCmd.Flags().StringVar(&objectsGroupOrder, "order", "", "sort direction (asc, desc)")
	objectsGroupCmd.Flags().BoolVar(&objectsGroupCount, "count", false, "include per-bucket counts")

	objectsPropertiesCmd.Flags().IntVar(&objectsPropertiesLimit, "limit", 0, "maximum matches to return (0 = no limit)")

	objectsRefsCmd.Flags().BoolVar(&objectsRefsNetwork, "network", false, "walk the reference graph instead of one hop")
	objectsRefsCmd.Flags().IntVar(&objectsRefsDepth, "depth", service.DefaultNetworkDepth, "maximum hops for --network")
}

func runObjectsList(cmd *cobra.Command, args []string) error {
	svc, err := GetService(Context())
	if err != nil {
		return err
	}

	result, err := svc.ListObjects(Context(), service.ListParams{
		Domain:   objectsListDomain,
		Query:    objectsListQuery,
		Language: Language(),
		Limit:    objectsListLimit,
		Offset:   objectsListOffset,
	})
	if err != nil {
		return fmt.Errorf("failed to list objects: %w", err)
	}

	rows := make([][]string, 0, len(result.Objects))
	for _, obj := range result.Objects {
		rows = append(rows, []string{string(obj.ID), obj.Name, obj.Domain})
	}

	out := NewOutputWriter()
	return out.WriteResult(result, TableData{
		Headers: []string{"ID", "NAME", "DOMAIN"},
		Rows:    rows,
		Footer:  fmt.Sprintf("%d of %d objects", len(result.Objects), result.Total),
	})
}

func runObjectsGet(cmd *cobra.Command, args []string) error {
	svc, err := GetService(Context())
	if err != nil {
		return err
	}

	result, err := svc.GetObject(Context(), domain.ObjectID(args[0]), Language())
	if err != nil {
		return fmt.Errorf("failed to get object: %w", err)
	}

	out := NewOutputWriter()
	switch OutputFormat() {
	case "json", "yaml":
		return out.Write(result)
	case "quiet":
		return out.Write(string(result.Object.ID))
	}

	printObject(result)
	return nil
}

// printObject renders one object for human consumption.
func printObject(result service.GetResult) {
	obj := result.Object

	source := "live"
	if result.FromCache {
		source = "cache"
	}

	fmt.Printf("Name:    %s\n", obj.Name)
	fmt.Printf("ID:      %s\n", obj.ID)
	fmt.Printf("Domain:  %s\n", obj.Domain)
	fmt.Printf("Source:  %s\n", source)
	if obj.Description != "" {
		fmt.Printf("About:   %s\n", obj.Description)
	}
	if len(obj.Classifications) > 0 {
		fmt.Printf("Classes: %s\n", strings.Join(obj.Classifications, ", "))
	}

	if len(obj.PropertySets) > 0 {
		fmt.Println("\nProperty sets:")
		for _, ps := range obj.PropertySets {
			fmt.Printf("  %s\n", ps.Name)
			for _, p := range ps.Properties {
				value := p.Value.String()
				if p.Unit != "" {
					value += " " + p.Unit
				}
				fmt.Printf("    %-24s %s\n", p.Name, value)
			}
		}
	}

	if len(obj.Relationships) > 0 {
		relTypes := make([]string, 0, len(obj.Relationships))
		for relType := range obj.Relationships {
			relTypes = append(relTypes, relType)
		}
		sort.Strings(relTypes)

		fmt.Println("\nRelationships:")
		for _, relType := range relTypes {
			ids := obj.Relationships[relType]
			strs := make([]string, 0, len(ids))
			for _, id := range ids {
				strs = append(strs, string(id))
			}
			fmt.Printf("  %-24s %s\n", relType, strings.Join(strs, ", "))
		}
	}
}

func runObjectsSearch(cmd *cobra.Command, args []string) error {
	svc, err := GetService(Context())
	if err != nil {
		return err
	}

	result, err := svc.AdvancedSearch(Context(), search.Params{
		Query:         args[0],
		Fields:        objectsSearchFields,
		Domain:        objectsSearchDomain,
		Mode:          search.Mode(objectsSearchMode),
		CaseSensitive: objectsSearchCase,
		Language:      Language(),
		Limit:         objectsSearchLimit,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	rows := make([][]string, 0, len(result.Matches))
	for _, m := range result.Matches {
		rows = append(rows, []string{string(m.ObjectID), m.ObjectName, m.Field, m.Path, m.Value})
	}

	out := NewOutputWriter()
	return out.WriteResult(result, TableData{
		Headers: []string{"OBJECT", "NAME", "FIELD", "PATH", "VALUE"},
		Rows:    rows,
		Footer:  fmt.Sprintf("%d of %d matches", len(result.Matches), result.TotalMatches),
	})
}

func runObjectsGroup(cmd *cobra.Command, args []string) error {
	svc, err := GetService(Context())
	if err != nil {
		return err
	}

	keys, err := group.ParseKeys(objectsGroupBy)
	if err != nil {
		return err
	}
	sortBy, err := group.ParseSortKey(objectsGroupSort)
	if err != nil {
		return err
	}
	order, err := group.ParseOrder(objectsGroupOrder)
	if err != nil {
		return err
	}

	ids := make([]domain.ObjectID, 0, len(args))
	for _, arg := range args {
		ids = append(ids, domain.ObjectID(arg))
	}

	result, err := svc.GroupObjects(Context(), group.Params{
		IDs:          ids,
		GroupBy:      keys,
		SortBy:       sortBy,
		Order:        order,
		IncludeCount: objectsGroupCount,
		Language:     Language(),
	})
	if err != nil {
		return fmt.Errorf("grouping failed: %w", err)
	}

	out := NewOutputWriter()
	if objectsGroupCount && OutputFormat() == "table" {
		paths := make([]string, 0, len(result.GroupCounts))
		for path := range result.GroupCounts {
			paths = append(paths, path)
		}
		sort.Strings(paths)

		rows := make([][]string, 0, len(paths))
		for _, path := range paths {
			rows = append(rows, []string{path, strconv.Itoa(result.GroupCounts[path])})
		}
		return out.Write(TableData{
			Headers: []string{"GROUP", "OBJECTS"},
			Rows:    rows,
			Footer:  fmt.Sprintf("%d objects", result.TotalObjects),
		})
	}

	// Nested buckets have no flat table shape
	return out.Write(result)
}

func runObjectsDomains(cmd *cobra.Command, args []string) error {
	svc, err := GetService(Context())
	if err != nil {
		return err
	}

	result, err := svc.ListDomains(Context(), Language())
	if err != nil {
		return fmt.Errorf("failed to list domains: %w", err)
	}

	names := make([]string, 0, len(result.Domains))
	for name := range result.Domains {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strconv.Itoa(result.Domains[name])})
	}

	out := NewOutputWriter()
	return out.WriteResult(result, TableData{
		Headers: []string{"DOMAIN", "OBJECTS"},
		Rows:    rows,
		Footer:  fmt.Sprintf("%d domains, %d objects", result.TotalDomains, result.TotalObjects),
	})
}

func runObjectsProperties(cmd *cobra.Command, args []string) error {
	svc, err := GetService(Context())
	if err != nil {
		return err
	}

	result, err := svc.SearchProperties(Context(), service.PropertyQuery{
		Query:    args[0],
		Language: Language(),
		Limit:    objectsPropertiesLimit,
	})
	if err != nil {
		return fmt.Errorf("property search failed: %w", err)
	}

	rows := make([][]string, 0, len(result.Matches))
	for _, m := range result.Matches {
		value := m.Property.Value.String()
		if m.Property.Unit != "" {
			value += " " + m.Property.Unit
		}
		rows = append(rows, []string{m.Property.Name, value, m.PropertySetName, string(m.ObjectID), m.ObjectName})
	}

	out := NewOutputWriter()
	return out.WriteResult(result, TableData{
		Headers: []string{"PROPERTY", "VALUE", "SET", "OBJECT", "NAME"},
		Rows:    rows,
		Footer:  fmt.Sprintf("%d of %d matches", len(result.Matches), result.TotalMatches),
	})
}

func runObjectsRefs(cmd *cobra.Command, args []string) error {
	svc, err := GetService(Context())
	if err != nil {
		return err
	}

	id := domain.ObjectID(args[0])
	out := NewOutputWriter()

	if objectsRefsNetwork {
		network, err := svc.ReferenceNetwork(Context(), id, objectsRefsDepth, Language())
		if err != nil {
			return fmt.Errorf("reference walk failed: %w", err)
		}

		nodes := make([]*service.ReferenceAnalysis, 0, len(network))
		for _, analysis := range network {
			nodes = append(nodes, analysis)
		}
		sort.Slice(nodes, func(i, j int) bool {
			if nodes[i].Depth != nodes[j].Depth {
				return nodes[i].Depth < nodes[j].Depth
			}
			return nodes[i].ObjectID < nodes[j].ObjectID
		})

		rows := make([][]string, 0, len(nodes))
		for _, n := range nodes {
			rows = append(rows, []string{
				string(n.ObjectID),
				strconv.Itoa(n.Depth),
				strconv.Itoa(len(n.ReferencesTo)),
				strconv.Itoa(len(n.ReferencedBy)),
			})
		}
		return out.WriteResult(network, TableData{
			Headers: []string{"OBJECT", "DEPTH", "REFS OUT", "REFS IN"},
			Rows:    rows,
			Footer:  fmt.Sprintf("%d objects within %d hops", len(network), objectsRefsDepth),
		})
	}

	analysis, err := svc.References(Context(), id, Language())
	if err != nil {
		return fmt.Errorf("reference analysis failed: %w", err)
	}

	rows := make([][]string, 0, len(analysis.ReferencesTo)+len(analysis.ReferencedBy))
	for _, ref := range analysis.ReferencesTo {
		rows = append(rows, []string{"out", string(ref)})
	}
	for _, ref := range analysis.ReferencedBy {
		rows = append(rows, []string{"in", string(ref)})
	}

	return out.WriteResult(analysis, TableData{
		Headers: []string{"DIRECTION", "OBJECT"},
		Rows:    rows,
		Footer:  fmt.Sprintf("%d references", analysis.ReferenceCount),
	})
}
