package artifact

const modelTemplate = `<?php

namespace {{.Namespace}};

use App\Traits\HasBaseBuilder;
use Illuminate\Database\Eloquent\Model;
{{- if .UsesBelongsTo}}
use Illuminate\Database\Eloquent\Relations\BelongsTo;
{{- end}}
{{- if .UsesHasMany}}
use Illuminate\Database\Eloquent\Relations\HasMany;
{{- end}}

class {{.Entity}} extends Model
{
    use HasBaseBuilder;
{{- if .Table}}

    protected $table = {{q .Table}};
{{- end}}

    protected $guarded = [];
{{- range .Relations}}

    public function {{.Accessor}}(): {{.ReturnType}}
    {
        return $this->{{.Kind}}({{.Related}}::class{{if .ForeignKey}}, {{q .ForeignKey}}{{end}});
    }
{{- end}}
}
`

const requestTemplate = `<?php

namespace {{.Namespace}};

use App\Http\Requests\BaseFormRequest;

class {{.Entity}}Request extends BaseFormRequest
{
    public function baseRules(): array
    {
        return [
{{- range .Rules}}
            {{q .Column}} => {{q .Rules}},
{{- end}}
        ];
    }
}
`

const controllerTemplate = `<?php

namespace {{.Namespace}};

use App\Http\Controllers\Controller;
use {{.ModelNamespace}}\{{.Entity}};
use {{.RequestNamespace}}\{{.Entity}}Request;
use Illuminate\Http\Request;

class {{.Entity}}Controller extends Controller
{
    protected $model;

    public function __construct({{.Entity}} $model)
    {
        $this->model = $model;
    }

    public function index(Request $request)
    {
        $query = $this->model->query()->select({{q (printf "%s.*" .Table)}});

        $query->search($request->input('search'), [{{range $i, $c := .SearchColumns}}{{if $i}}, {{end}}{{q (printf "%s.%s" $.Table $c)}}{{end}}]);
        $query->filter($request->only([{{range $i, $c := .FilterColumns}}{{if $i}}, {{end}}{{q $c}}{{end}}]));

        return $query->paginate($request->integer('per_page', {{.PerPage}}));
    }

    public function store({{.Entity}}Request $request)
    {
        return $this->model->create($request->validated());
    }

    public function show($id)
    {
        return $this->model->findOrFail($id);
    }

    public function update({{.Entity}}Request $request, $id)
    {
        $model = $this->model->findOrFail($id);
        $model->update($request->validated());

        return $model;
    }

    public function destroy($id)
    {
        $model = $this->model->findOrFail($id);
        $model->delete();

        return $id;
    }
}
`

const seederTemplate = `<?php

namespace {{.Namespace}};

use Illuminate\Database\Seeder;
use Illuminate\Support\Facades\DB;

class {{.Entity}}Seeder extends Seeder
{
    public function run(): void
    {
        DB::table({{q .Table}})->insert([
{{- range .Rows}}
            [
{{- range .}}
                {{q .Column}} => {{.Value}},
{{- end}}
            ],
{{- end}}
        ]);
    }
}
`
